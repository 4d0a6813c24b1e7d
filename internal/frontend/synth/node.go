package synth

import (
	"graft/internal/frontend"
	"graft/internal/source"
)

// Node implements frontend.Cursor.
type Node struct {
	kind           frontend.CursorKind
	usr            string
	spelling       string
	mangled        string
	span           source.Span
	typ            frontend.Type
	children       []*Node
	definition     bool
	virtual        bool
	conv           frontend.CallConv
	result         frontend.Type
	params         []frontend.Param
	enumValues     []frontend.EnumValue
	enumUnderlying frontend.Type
}

func (n *Node) Kind() frontend.CursorKind { return n.kind }
func (n *Node) USR() string               { return n.usr }
func (n *Node) Spelling() string          { return n.spelling }
func (n *Node) Mangled() string           { return n.mangled }
func (n *Node) Location() source.Span     { return n.span }
func (n *Node) Type() frontend.Type       { return n.typ }
func (n *Node) IsDefinition() bool        { return n.definition }
func (n *Node) IsVirtual() bool           { return n.virtual }

func (n *Node) Children() []frontend.Cursor {
	out := make([]frontend.Cursor, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) ResultType() frontend.Type        { return n.result }
func (n *Node) Params() []frontend.Param         { return n.params }
func (n *Node) CallConv() frontend.CallConv      { return n.conv }
func (n *Node) EnumValues() []frontend.EnumValue { return n.enumValues }
func (n *Node) EnumUnderlying() frontend.Type    { return n.enumUnderlying }

// Virtual marks a method cursor virtual. Returns n for chaining.
func (n *Node) Virtual() *Node {
	n.virtual = true
	return n
}

// Anonymous clears the display name, as for an unnamed struct or enum.
func (n *Node) Anonymous() *Node {
	n.spelling = ""
	return n
}

// Sized overrides the byte size the node's own type reports. Tests use it
// to fabricate ABI disagreements.
func (n *Node) Sized(size int64) *Node {
	if t, ok := n.typ.(*Type); ok {
		t.size = size
	}
	return n
}

// WithCallConv overrides the function cursor's calling convention.
func (n *Node) WithCallConv(conv frontend.CallConv) *Node {
	n.conv = conv
	return n
}

// AddChild appends children after construction.
func (n *Node) AddChild(children ...*Node) *Node {
	n.children = append(n.children, children...)
	return n
}
