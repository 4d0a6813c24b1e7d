// Package layout models the ABI facts the external layout collaborator
// pre-computes for record declarations. The translation core only
// consumes this structure; it never derives offsets or vtable shapes
// itself.
package layout

import (
	"fmt"

	"graft/internal/frontend"
)

// FieldKind tags one slot of a record layout.
type FieldKind int32

const (
	FieldNormal FieldKind = iota
	FieldVTablePtr
	FieldNonVirtualBase
	FieldVirtualBaseTablePtr // Microsoft ABI only
	FieldVTorDisp            // Microsoft ABI only
	FieldVirtualBase
)

func (k FieldKind) String() string {
	switch k {
	case FieldNormal:
		return "normal"
	case FieldVTablePtr:
		return "vtable-ptr"
	case FieldNonVirtualBase:
		return "non-virtual-base"
	case FieldVirtualBaseTablePtr:
		return "virtual-base-table-ptr"
	case FieldVTorDisp:
		return "vtordisp"
	case FieldVirtualBase:
		return "virtual-base"
	default:
		return fmt.Sprintf("FieldKind(%d)", k)
	}
}

// Field is one ordered-by-offset slot of a record.
type Field struct {
	Kind   FieldKind
	Offset int64
	Name   string

	// Type of the field for FieldNormal; type of the base for the base
	// kinds; void** for FieldVTablePtr.
	Type frontend.Type

	// Declaration is set only for FieldNormal.
	Declaration frontend.Cursor

	IsBitField    bool
	BitFieldStart uint32
	BitFieldWidth uint32

	// IsPrimaryBase is meaningful for the base kinds only.
	IsPrimaryBase bool
}

// VTableEntryKind tags one slot of a virtual table.
type VTableEntryKind int32

const (
	VTableVCallOffset VTableEntryKind = iota
	VTableVBaseOffset
	VTableOffsetToTop
	VTableRTTI
	VTableFunctionPointer
	VTableCompleteDestructor
	VTableDeletingDestructor
	VTableUnusedFunctionPointer
)

func (k VTableEntryKind) String() string {
	switch k {
	case VTableVCallOffset:
		return "vcall-offset"
	case VTableVBaseOffset:
		return "vbase-offset"
	case VTableOffsetToTop:
		return "offset-to-top"
	case VTableRTTI:
		return "rtti"
	case VTableFunctionPointer:
		return "function-pointer"
	case VTableCompleteDestructor:
		return "complete-destructor"
	case VTableDeletingDestructor:
		return "deleting-destructor"
	case VTableUnusedFunctionPointer:
		return "unused-function-pointer"
	default:
		return fmt.Sprintf("VTableEntryKind(%d)", k)
	}
}

// IsFunction reports whether the entry holds a method pointer.
func (k VTableEntryKind) IsFunction() bool {
	switch k {
	case VTableFunctionPointer, VTableCompleteDestructor, VTableDeletingDestructor, VTableUnusedFunctionPointer:
		return true
	default:
		return false
	}
}

// VTableEntry is one slot of a vtable description.
type VTableEntry struct {
	Kind VTableEntryKind

	// Method is set when Kind.IsFunction().
	Method frontend.Cursor

	// Offset is set for the offset kinds.
	Offset int64
}

// VTable is one ordered vtable. Records on the Microsoft ABI can carry
// more than one.
type VTable struct {
	Entries []VTableEntry
}

// RecordLayout is the complete pre-computed layout of one record.
type RecordLayout struct {
	Fields  []Field // ordered by offset
	VTables []VTable

	Size      int64
	Alignment int64

	// C++ records only.
	IsCppRecord         bool
	NonVirtualSize      int64
	NonVirtualAlignment int64
}

// Provider answers layout queries for record cursors.
type Provider interface {
	// RecordLayout returns the layout of the record declared by cursor.
	// An error means the collaborator could not compute it; the record's
	// translation is then unreliable.
	RecordLayout(cursor frontend.Cursor) (*RecordLayout, error)
}
