// Package synth fabricates native AST units in memory. It exists for two
// consumers: the test suites, which need precise control over cursor and
// type shapes (including deliberately wrong byte sizes), and the CLI demo
// unit. It is a stand-in for a real parser binding, not a parser.
package synth

import (
	"fmt"

	"graft/internal/frontend"
	"graft/internal/source"
)

// Unit is one synthetic translation unit.
type Unit struct {
	path   string
	fileID source.FileID
	root   *Node
	usrSeq int
	cursor uint32
}

// NewUnit registers a virtual file and returns an empty unit rooted at a
// translation-unit cursor.
func NewUnit(fset *source.FileSet, path string) *Unit {
	u := &Unit{path: path}
	u.fileID = fset.AddVirtual(path, []byte("// synthetic unit\n"))
	u.root = u.node(frontend.CursorTranslationUnit, "", nil)
	return u
}

// Path returns the virtual path the unit was registered under.
func (u *Unit) Path() string { return u.path }

// FileID returns the unit's virtual file.
func (u *Unit) FileID() source.FileID { return u.fileID }

// Root returns the translation-unit cursor.
func (u *Unit) Root() frontend.Cursor { return u.root }

// Add appends top-level declarations to the unit.
func (u *Unit) Add(nodes ...*Node) *Unit {
	for _, n := range nodes {
		u.root.children = append(u.root.children, n)
	}
	return u
}

func (u *Unit) nextSpan() source.Span {
	u.cursor += 8
	return source.Span{File: u.fileID, Start: u.cursor, End: u.cursor + 4}
}

func (u *Unit) node(kind frontend.CursorKind, name string, typ frontend.Type, children ...*Node) *Node {
	u.usrSeq++
	return &Node{
		kind:     kind,
		usr:      fmt.Sprintf("synth:%s#%d:%s", u.path, u.usrSeq, name),
		spelling: name,
		span:     u.nextSpan(),
		typ:      typ,
		children: children,
	}
}

// Namespace builds a namespace cursor around children.
func (u *Unit) Namespace(name string, children ...*Node) *Node {
	return u.node(frontend.CursorNamespace, name, nil, children...)
}

// LinkageSpec builds an extern "C" style block around children.
func (u *Unit) LinkageSpec(children ...*Node) *Node {
	return u.node(frontend.CursorLinkageSpec, "", nil, children...)
}

// Record builds a struct/class definition cursor.
func (u *Unit) Record(name string, children ...*Node) *Node {
	n := u.node(frontend.CursorRecord, name, nil, children...)
	n.definition = true
	n.typ = &Type{kind: frontend.TypeRecord, decl: n, spelling: name, size: -1}
	return n
}

// ForwardRecord builds a declaration-only record cursor.
func (u *Unit) ForwardRecord(name string) *Node {
	n := u.node(frontend.CursorRecord, name, nil)
	n.typ = &Type{kind: frontend.TypeRecord, decl: n, spelling: name, size: -1}
	return n
}

// Enum builds an enum definition cursor.
func (u *Unit) Enum(name string, underlying frontend.Type, values ...frontend.EnumValue) *Node {
	n := u.node(frontend.CursorEnum, name, nil)
	n.definition = true
	n.enumUnderlying = underlying
	n.enumValues = values
	n.typ = &Type{kind: frontend.TypeEnum, decl: n, spelling: name, size: underlying.ByteSize()}
	return n
}

// Function builds a free-function cursor.
func (u *Unit) Function(name, mangled string, result frontend.Type, params ...frontend.Param) *Node {
	n := u.node(frontend.CursorFunction, name, nil)
	n.mangled = mangled
	n.result = result
	n.params = params
	n.typ = FnProto(frontend.CallC, result, paramTypes(params)...)
	return n
}

// Method builds a member-function cursor; attach it as a record child.
func (u *Unit) Method(name, mangled string, result frontend.Type, params ...frontend.Param) *Node {
	n := u.Function(name, mangled, result, params...)
	n.kind = frontend.CursorMethod
	n.conv = frontend.CallThisCall
	return n
}

// Var builds a namespace-scope variable cursor.
func (u *Unit) Var(name, mangled string, typ frontend.Type) *Node {
	n := u.node(frontend.CursorVar, name, typ)
	n.mangled = mangled
	return n
}

// Field builds a field cursor. Record translation reads fields from the
// layout collaborator, so a field showing up in the plain walk is the
// error path under test.
func (u *Unit) Field(name string, typ frontend.Type) *Node {
	return u.node(frontend.CursorField, name, typ)
}

// Typedef builds an alias-declaration cursor (unsupported by translation).
func (u *Unit) Typedef(name string, to frontend.Type) *Node {
	return u.node(frontend.CursorTypedef, name, Alias(name, to))
}

// Template builds a template-declaration cursor (unsupported).
func (u *Unit) Template(name string, children ...*Node) *Node {
	return u.node(frontend.CursorTemplate, name, nil, children...)
}

// Using builds a using-directive cursor (no output meaning).
func (u *Unit) Using(name string) *Node {
	return u.node(frontend.CursorUsing, name, nil)
}

// Param makes a frontend.Param with a fabricated location.
func (u *Unit) Param(name string, typ frontend.Type) frontend.Param {
	return frontend.Param{Name: name, Type: typ, Loc: u.nextSpan()}
}

// EnumValue makes one enumerator.
func (u *Unit) EnumValue(name string, value int64) frontend.EnumValue {
	return frontend.EnumValue{Name: name, Value: value, Loc: u.nextSpan()}
}

// Raw builds a cursor of an arbitrary kind, for walk edge cases.
func (u *Unit) Raw(kind frontend.CursorKind, name string, children ...*Node) *Node {
	return u.node(kind, name, nil, children...)
}

func paramTypes(params []frontend.Param) []frontend.Type {
	out := make([]frontend.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}
