// Package frontend defines the read-only oracle over the native parser's
// AST. The translation core never computes syntactic or ABI facts itself;
// it asks these interfaces and trusts the answers.
package frontend

import (
	"graft/internal/source"
)

// Cursor is one node of the native syntax tree.
type Cursor interface {
	// Kind classifies the node for the translation dispatch table.
	Kind() CursorKind
	// USR is the node's stable identity across queries.
	USR() string
	// Spelling is the display name, empty for anonymous entities.
	Spelling() string
	// Mangled is the link name, empty when the node has none.
	Mangled() string
	// Location places the node in its header.
	Location() source.Span
	// Type is the node's own type (field type, function proto, ...).
	Type() Type
	// Children returns the lexical child nodes.
	Children() []Cursor
	// IsDefinition distinguishes definitions from forward declarations.
	IsDefinition() bool
	// IsVirtual reports whether a method cursor is virtual.
	IsVirtual() bool

	// ResultType and Params describe function cursors.
	ResultType() Type
	Params() []Param
	CallConv() CallConv

	// EnumValues and EnumUnderlying describe enum cursors.
	EnumValues() []EnumValue
	EnumUnderlying() Type
}

// Param is one declared parameter of a function cursor.
type Param struct {
	Name string
	Type Type
	Loc  source.Span
}

// EnumValue is one enumerator of an enum cursor.
type EnumValue struct {
	Name  string
	Value int64
	Loc   source.Span
}

// Type is one native type, queried structurally. All sub-part accessors
// return nil when the part does not exist for this kind.
type Type interface {
	Kind() TypeKind
	// ByteSize is the native size of the type; negative when unknown
	// (incomplete, dependent).
	ByteSize() int64
	// Spelling is the native rendering of the type, for diagnostics.
	Spelling() string

	Pointee() Type   // pointer/reference
	Element() Type   // array element
	ArrayLen() int64 // constant array length, negative otherwise
	Named() Type     // the type a qualification wrapper names
	Canonical() Type // the type an alias expands to

	Params() []Type // function proto
	Result() Type
	CallConv() CallConv

	// Decl returns the declaring cursor of a record/enum type,
	// nil for undeclared or anonymous types.
	Decl() Cursor
}
