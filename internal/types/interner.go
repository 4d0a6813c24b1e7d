package types

import (
	"fmt"

	"fortio.org/safecast"

	"graft/internal/source"
)

// Builtins stores TypeIDs for descriptors every translation needs.
type Builtins struct {
	Invalid  TypeID
	Void     TypeID
	VoidPtr  TypeID // the opaque fallback for untranslatable pointers
	Bool     TypeID
	Char     TypeID
	S8, U8   TypeID
	S16, U16 TypeID
	S32, U32 TypeID
	S64, U64 TypeID
	F32, F64 TypeID
	WChar    TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// A TypeID, once handed out, always names the same immutable descriptor.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	fns      []FnInfo
	labels   *source.Interner
}

// NewInterner constructs an interner seeded with the output primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:  make(map[typeKey]TypeID, 64),
		labels: source.NewInterner(),
	}
	in.fns = append(in.fns, FnInfo{}) // reserve 0 as invalid sentinel
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.VoidPtr = in.Intern(MakePointer(in.builtins.Void))
	in.builtins.Bool = in.Intern(MakeBuiltin(BuiltinBool))
	in.builtins.Char = in.Intern(MakeBuiltin(BuiltinChar))
	in.builtins.S8 = in.Intern(MakeBuiltin(BuiltinS8))
	in.builtins.U8 = in.Intern(MakeBuiltin(BuiltinU8))
	in.builtins.S16 = in.Intern(MakeBuiltin(BuiltinS16))
	in.builtins.U16 = in.Intern(MakeBuiltin(BuiltinU16))
	in.builtins.S32 = in.Intern(MakeBuiltin(BuiltinS32))
	in.builtins.U32 = in.Intern(MakeBuiltin(BuiltinU32))
	in.builtins.S64 = in.Intern(MakeBuiltin(BuiltinS64))
	in.builtins.U64 = in.Intern(MakeBuiltin(BuiltinU64))
	in.builtins.F32 = in.Intern(MakeBuiltin(BuiltinF32))
	in.builtins.F64 = in.Intern(MakeBuiltin(BuiltinF64))
	in.builtins.WChar = in.Intern(MakeBuiltin(BuiltinWChar))
	return in
}

// Builtins returns the pre-interned primitive TypeIDs.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Pointer interns a pointer around elem.
func (in *Interner) Pointer(elem TypeID) TypeID {
	return in.Intern(MakePointer(elem))
}

// DeclRefTo interns a reference to the declaration with the given source
// identity. The target is resolved lazily: consumers look the identity up
// in the declaration tree when they need the translated node.
func (in *Interner) DeclRefTo(identity string) TypeID {
	return in.Intern(MakeDeclRef(uint32(in.labels.Intern(identity))))
}

// DeclRefTarget recovers the source identity a DeclRef points at.
func (in *Interner) DeclRefTarget(id TypeID) (string, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindDeclRef {
		return "", false
	}
	return in.labels.Lookup(source.StringID(tt.Payload))
}

// Opaque interns a custom-payload reference carrying only a label.
func (in *Interner) Opaque(label string) TypeID {
	return in.Intern(Type{Kind: KindOpaque, Payload: uint32(in.labels.Intern(label))})
}

// OpaqueLabel recovers the label of an opaque reference.
func (in *Interner) OpaqueLabel(id TypeID) (string, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindOpaque {
		return "", false
	}
	return in.labels.Lookup(source.StringID(tt.Payload))
}

// BuiltinBySize returns the pre-interned integer primitive matching the
// given byte width, preferring the signed form. Used by the reduction
// fallback when an untranslatable type still has a known size.
func (in *Interner) BuiltinBySize(width int) (TypeID, bool) {
	switch width {
	case 1:
		return in.builtins.S8, true
	case 2:
		return in.builtins.S16, true
	case 4:
		return in.builtins.S32, true
	case 8:
		return in.builtins.S64, true
	default:
		return NoTypeID, false
	}
}

// SmallestBuiltin returns the narrowest integer primitive. The reduction
// fallback substitutes it when nothing size-compatible exists.
func (in *Interner) SmallestBuiltin() TypeID {
	return in.builtins.S8
}

type typeKey struct {
	Kind    Kind
	Elem    TypeID
	Builtin BuiltinKind
	Payload uint32
}
