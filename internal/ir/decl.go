// Package ir is the declaration tree: the structured representation of
// translatable entities, independent of the native parser's objects.
// Nodes are created during translation and mutated only through
// whole-node replacement afterwards; "unchanged" always means "same
// DeclID", never "recomputed to an equal value".
package ir

import (
	"fmt"

	"graft/internal/diag"
	"graft/internal/layout"
	"graft/internal/source"
	"graft/internal/types"
)

// DeclID is a handle into a file's declaration arena.
type DeclID uint32

// NoDeclID marks the absence of a declaration.
const NoDeclID DeclID = 0

// IsValid reports whether the ID names an allocated declaration.
func (id DeclID) IsValid() bool { return id != NoDeclID }

// DeclKind enumerates the closed set of declaration variants.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclRecord
	DeclEnum
	DeclFunction
	DeclStaticField
	DeclField
	DeclVTable
	DeclCustom
)

func (k DeclKind) String() string {
	switch k {
	case DeclRecord:
		return "record"
	case DeclEnum:
		return "enum"
	case DeclFunction:
		return "function"
	case DeclStaticField:
		return "static-field"
	case DeclField:
		return "field"
	case DeclVTable:
		return "vtable"
	case DeclCustom:
		return "custom"
	default:
		return fmt.Sprintf("DeclKind(%d)", k)
	}
}

// Param is one translated function parameter.
type Param struct {
	Name string
	Type types.TypeID
	Loc  source.Span
}

// EnumConstant is one translated enumerator.
type EnumConstant struct {
	Name  string
	Value int64
	Loc   source.Span
}

// VTableSlot is one translated vtable entry; Target is set for the
// function-pointer kinds and names the translated method when one exists.
type VTableSlot struct {
	Kind   layout.VTableEntryKind
	Target DeclID
	Offset int64
}

// CustomCaps is the capability table a custom declaration carries in
// place of open-ended subclassing.
type CustomCaps struct {
	RootCapable bool
	// Describe renders the payload for the tree printer.
	Describe func(payload any) string
}

// Decl is one node of the declaration tree. Kind selects which payload
// fields are meaningful; the rest stay zero. Decls are plain data: a
// pass never mutates one in place, it allocates a replacement.
type Decl struct {
	Kind    DeclKind
	Name    string
	Mangled string
	// Namespace is the native namespace context the declaration was
	// found in ("" for the global namespace), "::"-joined.
	Namespace string
	// Parent is a non-owning back-reference used for qualified-name
	// reconstruction. Ownership lives in the container's Members (or the
	// file's Roots/Loose lists), never here.
	Parent DeclID
	// Cursor is the originating source identity, empty for synthesized
	// declarations (loose-declaration containers).
	Cursor string
	Span   source.Span
	// Loose marks declarations with no natural enclosing container.
	Loose bool
	// Diags accumulates this declaration's diagnostics.
	Diags []diag.Diagnostic

	// DeclRecord
	Members             []DeclID
	Size                int64
	Alignment           int64
	IsCpp               bool
	NonVirtualSize      int64
	NonVirtualAlignment int64
	Synthesized         bool // container fabricated for loose declarations

	// DeclEnum
	Underlying  types.TypeID
	Constants   []EnumConstant
	AsConstants bool // emit bare constants, no named type

	// DeclFunction
	Result    types.TypeID
	Params    []Param
	Conv      types.CallConv
	IsVirtual bool
	IsMethod  bool

	// DeclStaticField / DeclField
	Type          types.TypeID
	Offset        int64
	FieldKind     layout.FieldKind
	IsBitField    bool
	BitFieldStart uint32
	BitFieldWidth uint32
	IsPrimaryBase bool

	// DeclVTable
	Slots []VTableSlot

	// Symbol binding, filled in by the resolution pass.
	ImportModule string
	ImportName   string

	// DeclCustom
	Payload any
	Caps    CustomCaps
}

// RootCapable reports whether the declaration may stand alone at file
// scope in the output. Loose functions and variables must be grouped
// under a container instead.
func (d *Decl) RootCapable() bool {
	switch d.Kind {
	case DeclRecord, DeclEnum:
		return true
	case DeclFunction:
		return !d.IsMethod
	case DeclCustom:
		return d.Caps.RootCapable
	default:
		return false
	}
}
