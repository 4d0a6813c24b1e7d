package types

import "fmt"

// TypeID uniquely identifies a type reference inside the interner.
// Interned references are immutable; sharing one is sharing the ID.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the closed set of type reference variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBuiltin
	KindPointer
	KindFunctionPointer
	KindDeclRef
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBuiltin:
		return "builtin"
	case KindPointer:
		return "pointer"
	case KindFunctionPointer:
		return "function-pointer"
	case KindDeclRef:
		return "decl-ref"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// BuiltinKind names an output primitive. Every entry carries a fixed
// byte width the emitted code relies on; the translator cross-checks the
// native type's actual size against it.
type BuiltinKind uint8

const (
	BuiltinInvalid BuiltinKind = iota
	BuiltinBool
	BuiltinChar
	BuiltinS8
	BuiltinU8
	BuiltinS16
	BuiltinU16
	BuiltinS32
	BuiltinU32
	BuiltinS64
	BuiltinU64
	BuiltinF32
	BuiltinF64
	BuiltinWChar
)

// Width returns the expected byte width of the primitive.
func (b BuiltinKind) Width() int {
	switch b {
	case BuiltinBool, BuiltinChar, BuiltinS8, BuiltinU8:
		return 1
	case BuiltinS16, BuiltinU16, BuiltinWChar:
		return 2
	case BuiltinS32, BuiltinU32, BuiltinF32:
		return 4
	case BuiltinS64, BuiltinU64, BuiltinF64:
		return 8
	default:
		return 0
	}
}

func (b BuiltinKind) String() string {
	switch b {
	case BuiltinBool:
		return "bool"
	case BuiltinChar:
		return "char"
	case BuiltinS8:
		return "s8"
	case BuiltinU8:
		return "u8"
	case BuiltinS16:
		return "s16"
	case BuiltinU16:
		return "u16"
	case BuiltinS32:
		return "s32"
	case BuiltinU32:
		return "u32"
	case BuiltinS64:
		return "s64"
	case BuiltinU64:
		return "u64"
	case BuiltinF32:
		return "f32"
	case BuiltinF64:
		return "f64"
	case BuiltinWChar:
		return "wchar"
	default:
		return fmt.Sprintf("BuiltinKind(%d)", b)
	}
}

// Signed reports whether the primitive is a signed integer.
func (b BuiltinKind) Signed() bool {
	switch b {
	case BuiltinS8, BuiltinS16, BuiltinS32, BuiltinS64:
		return true
	default:
		return false
	}
}

// CallConv identifies the calling convention of a function pointer.
type CallConv uint8

const (
	CallConvC CallConv = iota
	CallConvStdCall
	CallConvThisCall
	CallConvFastCall
	CallConvUnknown
)

func (c CallConv) String() string {
	switch c {
	case CallConvC:
		return "cdecl"
	case CallConvStdCall:
		return "stdcall"
	case CallConvThisCall:
		return "thiscall"
	case CallConvFastCall:
		return "fastcall"
	default:
		return "unknown"
	}
}

// Type is a compact descriptor for any type reference.
//
// Payload meaning depends on Kind:
//   - KindBuiltin: unused (Builtin carries the primitive)
//   - KindPointer: unused (Elem carries the pointee)
//   - KindFunctionPointer: index into the interner's fn infos
//   - KindDeclRef: raw declaration handle (resolved by the IR layer)
//   - KindOpaque: interned label
type Type struct {
	Kind    Kind
	Elem    TypeID
	Builtin BuiltinKind
	Payload uint32
}

// MakeBuiltin builds a builtin descriptor.
func MakeBuiltin(b BuiltinKind) Type {
	return Type{Kind: KindBuiltin, Builtin: b}
}

// MakePointer builds a pointer descriptor around an interned pointee.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeDeclRef builds a reference to a translated declaration from an
// already-interned identity label. Prefer Interner.DeclRefTo.
func MakeDeclRef(raw uint32) Type {
	return Type{Kind: KindDeclRef, Payload: raw}
}
