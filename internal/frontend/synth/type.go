package synth

import (
	"graft/internal/frontend"
)

// Type implements frontend.Type.
type Type struct {
	kind      frontend.TypeKind
	size      int64
	spelling  string
	pointee   *Type
	elem      *Type
	arrayLen  int64
	named     *Type
	canonical *Type
	params    []frontend.Type
	result    frontend.Type
	conv      frontend.CallConv
	decl      *Node
}

func (t *Type) Kind() frontend.TypeKind { return t.kind }
func (t *Type) ByteSize() int64         { return t.size }
func (t *Type) Spelling() string        { return t.spelling }

func (t *Type) Pointee() frontend.Type {
	if t.pointee == nil {
		return nil
	}
	return t.pointee
}

func (t *Type) Element() frontend.Type {
	if t.elem == nil {
		return nil
	}
	return t.elem
}

func (t *Type) ArrayLen() int64 { return t.arrayLen }

func (t *Type) Named() frontend.Type {
	if t.named == nil {
		return nil
	}
	return t.named
}

func (t *Type) Canonical() frontend.Type {
	if t.canonical == nil {
		return nil
	}
	return t.canonical
}

func (t *Type) Params() []frontend.Type     { return t.params }
func (t *Type) Result() frontend.Type       { return t.result }
func (t *Type) CallConv() frontend.CallConv { return t.conv }

func (t *Type) Decl() frontend.Cursor {
	if t.decl == nil {
		return nil
	}
	return t.decl
}

// builtinSize is the LP64 byte width of each native primitive. Tests that
// need a disagreeing front end override it with SizedBuiltin.
func builtinSize(kind frontend.TypeKind) int64 {
	switch kind {
	case frontend.TypeVoid:
		return 0
	case frontend.TypeBool, frontend.TypeChar, frontend.TypeSChar, frontend.TypeUChar:
		return 1
	case frontend.TypeWChar, frontend.TypeShort, frontend.TypeUShort:
		return 2
	case frontend.TypeInt, frontend.TypeUInt, frontend.TypeFloat:
		return 4
	case frontend.TypeLong, frontend.TypeULong, frontend.TypeLongLong, frontend.TypeULongLong, frontend.TypeDouble:
		return 8
	default:
		return -1
	}
}

// Void returns the native void type.
func Void() frontend.Type {
	return &Type{kind: frontend.TypeVoid, spelling: "void"}
}

// Builtin returns a native primitive with its natural LP64 size.
func Builtin(kind frontend.TypeKind) frontend.Type {
	return &Type{kind: kind, size: builtinSize(kind), spelling: kind.String()}
}

// SizedBuiltin returns a native primitive reporting an arbitrary size.
func SizedBuiltin(kind frontend.TypeKind, size int64) frontend.Type {
	return &Type{kind: kind, size: size, spelling: kind.String()}
}

// Pointer wraps t in a native pointer.
func Pointer(t frontend.Type) frontend.Type {
	return &Type{kind: frontend.TypePointer, size: 8, pointee: t.(*Type), spelling: t.Spelling() + " *"}
}

// Reference wraps t in an lvalue reference.
func Reference(t frontend.Type) frontend.Type {
	return &Type{kind: frontend.TypeLValueReference, size: 8, pointee: t.(*Type), spelling: t.Spelling() + " &"}
}

// RValueReference wraps t in an rvalue reference.
func RValueReference(t frontend.Type) frontend.Type {
	return &Type{kind: frontend.TypeRValueReference, size: 8, pointee: t.(*Type), spelling: t.Spelling() + " &&"}
}

// ConstArray is a constant-length array of n elements.
func ConstArray(elem frontend.Type, n int64) frontend.Type {
	return &Type{
		kind:     frontend.TypeConstantArray,
		size:     n * elem.ByteSize(),
		elem:     elem.(*Type),
		arrayLen: n,
		spelling: elem.Spelling() + " []",
	}
}

// IncompleteArray is an array of unknown length.
func IncompleteArray(elem frontend.Type) frontend.Type {
	return &Type{kind: frontend.TypeIncompleteArray, size: -1, elem: elem.(*Type), arrayLen: -1, spelling: elem.Spelling() + " []"}
}

// DependentArray is a template-parameter-sized array.
func DependentArray(elem frontend.Type) frontend.Type {
	return &Type{kind: frontend.TypeDependentArray, size: -1, elem: elem.(*Type), arrayLen: -1, spelling: elem.Spelling() + " [N]"}
}

// Alias wraps a type in typedef sugar.
func Alias(name string, to frontend.Type) frontend.Type {
	return &Type{kind: frontend.TypeAlias, size: to.ByteSize(), canonical: to.(*Type), spelling: name}
}

// Elaborated wraps a type in a namespace qualification wrapper.
func Elaborated(t frontend.Type) frontend.Type {
	return &Type{kind: frontend.TypeElaborated, size: t.ByteSize(), named: t.(*Type), spelling: t.Spelling()}
}

// FnProto builds a native function prototype.
func FnProto(conv frontend.CallConv, result frontend.Type, params ...frontend.Type) frontend.Type {
	return &Type{
		kind:     frontend.TypeFunctionProto,
		size:     -1,
		conv:     conv,
		result:   result,
		params:   params,
		spelling: "function",
	}
}

// Unexposed is a type the front end cannot describe structurally.
func Unexposed(spelling string, size int64) frontend.Type {
	return &Type{kind: frontend.TypeUnexposed, size: size, spelling: spelling}
}

// TypeOf returns the node's own type (record or enum cursors).
func TypeOf(n *Node) frontend.Type {
	return n.typ
}
