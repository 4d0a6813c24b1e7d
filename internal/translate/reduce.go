package translate

import (
	"fmt"
	"strings"

	"graft/internal/diag"
	"graft/internal/frontend"
	"graft/internal/ir"
	"graft/internal/source"
	"graft/internal/types"
)

// useContext selects the reduction rules that differ by position.
type useContext uint8

const (
	ctxReturn useContext = iota
	ctxParameter
	ctxField
	ctxEnumUnderlying
)

func (c useContext) String() string {
	switch c {
	case ctxReturn:
		return "return"
	case ctxParameter:
		return "parameter"
	case ctxField:
		return "field"
	case ctxEnumUnderlying:
		return "enum-underlying"
	default:
		return fmt.Sprintf("useContext(%d)", c)
	}
}

// reduce turns one native type into an interned type reference plus the
// diagnostics the reduction produced. The loop peels qualification
// wrappers, aliases, pointers, references and arrays until a terminal
// type remains, counting pointer-equivalent layers; the terminal is
// mapped, or degraded through the fallback ladder when it cannot be.
func (w *walker) reduce(nt frontend.Type, ctx useContext, loc source.Span) (types.TypeID, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	warn := func(code diag.Code, format string, args ...any) {
		diags = append(diags, diag.NewWarning(code, loc, fmt.Sprintf(format, args...)))
	}
	errf := func(code diag.Code, format string, args ...any) {
		diags = append(diags, diag.NewError(code, loc, fmt.Sprintf(format, args...)))
	}
	in := w.f.Types

	if nt == nil {
		return in.Builtins().Void, diags
	}

	indirection := 0
reduceLoop:
	for {
		switch nt.Kind() {
		case frontend.TypeElaborated:
			named := nt.Named()
			if named == nil {
				break reduceLoop
			}
			nt = named
		case frontend.TypeAlias:
			// Aliases never survive as distinct named types.
			canon := nt.Canonical()
			if canon == nil {
				break reduceLoop
			}
			nt = canon
		case frontend.TypePointer:
			indirection++
			nt = nt.Pointee()
		case frontend.TypeLValueReference, frontend.TypeRValueReference:
			warn(diag.RedReferenceDegraded, "%s degrades to pointer semantics; reference types are rare in translated surfaces and under-tested", nt.Kind())
			indirection++
			nt = nt.Pointee()
		case frontend.TypeConstantArray:
			switch ctx {
			case ctxReturn:
				errf(diag.RedArrayReturn, "a fixed-size array cannot be a return type")
				indirection++
				nt = nt.Element()
			case ctxField:
				// Field position needs the fixed-size representation; the
				// native type is kept whole behind an opaque reference.
				id := in.Opaque(nt.Spelling())
				return wrapPointers(in, id, indirection), diags
			default:
				warn(diag.RedArrayParamDecay, "array of %d elements decays to a pointer; the length is lost", nt.ArrayLen())
				indirection++
				nt = nt.Element()
			}
		case frontend.TypeDependentArray:
			errf(diag.RedDependentArray, "template-parameter-sized arrays are unsupported")
			indirection++
			nt = nt.Element()
		case frontend.TypeIncompleteArray:
			if ctx != ctxParameter {
				errf(diag.RedIncompleteArray, "array of unknown length outside parameter position")
			}
			if ctx != ctxField {
				indirection++
			}
			nt = nt.Element()
		default:
			break reduceLoop
		}
		if nt == nil {
			// The front end lost the inner type; degrade.
			return w.degrade(nil, ctx, loc, indirection, &diags), diags
		}
	}

	id, ok := w.terminal(nt, ctx, loc, &indirection, &diags)
	if !ok {
		return w.degrade(nt, ctx, loc, indirection, &diags), diags
	}
	return wrapPointers(in, id, indirection), diags
}

// terminal maps the fully reduced type. ok = false sends the caller to
// the fallback ladder.
func (w *walker) terminal(nt frontend.Type, ctx useContext, loc source.Span, indirection *int, diags *[]diag.Diagnostic) (types.TypeID, bool) {
	in := w.f.Types
	switch nt.Kind() {
	case frontend.TypeVoid:
		return in.Builtins().Void, true

	case frontend.TypeRecord:
		decl := nt.Decl()
		if decl == nil {
			return types.NoTypeID, false
		}
		w.noteNamespaceCrossing(decl.USR())
		return in.DeclRefTo(decl.USR()), true

	case frontend.TypeEnum:
		decl := nt.Decl()
		if decl == nil {
			return types.NoTypeID, false
		}
		if did, ok := w.f.DeclByCursor(decl.USR()); ok {
			d := w.f.Decls.Get(did)
			if d.Kind == ir.DeclEnum && d.AsConstants {
				// No named type will exist; substitute the underlying
				// integer, which was already reduced at enum translation.
				return d.Underlying, true
			}
		}
		w.noteNamespaceCrossing(decl.USR())
		return in.DeclRefTo(decl.USR()), true

	case frontend.TypeFunctionProto:
		result, rd := w.reduce(nt.Result(), ctxReturn, loc)
		*diags = append(*diags, rd...)
		srcParams := nt.Params()
		params := make([]types.TypeID, len(srcParams))
		for i, p := range srcParams {
			pid, pd := w.reduce(p, ctxParameter, loc)
			params[i] = pid
			*diags = append(*diags, pd...)
		}
		id := in.RegisterFn(convFrom(nt.CallConv()), params, result)
		if *indirection > 0 {
			// The function-pointer reference already is the pointer.
			*indirection--
		}
		return id, true

	default:
		bk, ok := builtinFor(nt.Kind())
		if !ok {
			return types.NoTypeID, false
		}
		if int64(bk.Width()) != nt.ByteSize() {
			*diags = append(*diags, diag.NewError(diag.RedBuiltinSizeMismatch, loc,
				fmt.Sprintf("native %s is %d bytes on this target but output %s expects %d; the primitive mapping table does not fit this ABI",
					nt.Spelling(), nt.ByteSize(), bk, bk.Width())))
			return types.NoTypeID, false
		}
		return builtinID(in, bk), true
	}
}

// degrade is the fallback ladder for untranslatable terminals. An
// indirect use collapses to an opaque void pointer; a direct one gets a
// same-size primitive, or the smallest one when nothing fits.
func (w *walker) degrade(nt frontend.Type, ctx useContext, loc source.Span, indirection int, diags *[]diag.Diagnostic) types.TypeID {
	in := w.f.Types
	spelling := "<unknown type>"
	var size int64 = -1
	if nt != nil {
		spelling = nt.Spelling()
		size = nt.ByteSize()
	}

	if indirection > 0 {
		*diags = append(*diags, diag.NewWarning(diag.RedOpaquePointer, loc,
			fmt.Sprintf("%s is untranslatable; the pointer to it degrades to an opaque void pointer", spelling)))
		return in.Builtins().VoidPtr
	}

	if size > 0 {
		if id, ok := in.BuiltinBySize(int(size)); ok {
			*diags = append(*diags, diag.NewWarning(diag.RedSizeMatchedFallback, loc,
				fmt.Sprintf("%s is untranslatable; substituting a %d-byte primitive of matching size", spelling, size)))
			return id
		}
	}

	msg := fmt.Sprintf("%s is untranslatable and no primitive matches its size; substituting the smallest primitive, which is likely wrong", spelling)
	if ctx == ctxReturn || ctx == ctxParameter {
		// A wrong-size return or parameter corrupts the call, not just
		// the data.
		*diags = append(*diags, diag.NewError(diag.RedSmallestFallback, loc, msg))
	} else {
		*diags = append(*diags, diag.NewWarning(diag.RedSmallestFallback, loc, msg))
	}
	return in.SmallestBuiltin()
}

// noteNamespaceCrossing records a namespace-import side effect the first
// time a referenced declaration lives outside the current emission
// context. Containment is path containment, not textual prefixing:
// "glm" is inside "glm::detail" but "gl" is not.
func (w *walker) noteNamespaceCrossing(usr string) {
	did, ok := w.f.DeclByCursor(usr)
	if !ok {
		return
	}
	target := w.f.Decls.Get(did).Namespace
	if target == "" {
		return
	}
	cur := w.namespace()
	if cur == target || strings.HasPrefix(cur, target+"::") {
		return
	}
	w.f.AddNamespaceImport(target)
}

func wrapPointers(in *types.Interner, id types.TypeID, indirection int) types.TypeID {
	for ; indirection > 0; indirection-- {
		id = in.Pointer(id)
	}
	return id
}

// builtinFor is the fixed native-primitive mapping table (LP64).
func builtinFor(kind frontend.TypeKind) (types.BuiltinKind, bool) {
	switch kind {
	case frontend.TypeBool:
		return types.BuiltinBool, true
	case frontend.TypeChar:
		return types.BuiltinChar, true
	case frontend.TypeSChar:
		return types.BuiltinS8, true
	case frontend.TypeUChar:
		return types.BuiltinU8, true
	case frontend.TypeWChar:
		return types.BuiltinWChar, true
	case frontend.TypeShort:
		return types.BuiltinS16, true
	case frontend.TypeUShort:
		return types.BuiltinU16, true
	case frontend.TypeInt:
		return types.BuiltinS32, true
	case frontend.TypeUInt:
		return types.BuiltinU32, true
	case frontend.TypeLong, frontend.TypeLongLong:
		return types.BuiltinS64, true
	case frontend.TypeULong, frontend.TypeULongLong:
		return types.BuiltinU64, true
	case frontend.TypeFloat:
		return types.BuiltinF32, true
	case frontend.TypeDouble:
		return types.BuiltinF64, true
	default:
		return types.BuiltinInvalid, false
	}
}

func builtinID(in *types.Interner, bk types.BuiltinKind) types.TypeID {
	b := in.Builtins()
	switch bk {
	case types.BuiltinBool:
		return b.Bool
	case types.BuiltinChar:
		return b.Char
	case types.BuiltinS8:
		return b.S8
	case types.BuiltinU8:
		return b.U8
	case types.BuiltinS16:
		return b.S16
	case types.BuiltinU16:
		return b.U16
	case types.BuiltinS32:
		return b.S32
	case types.BuiltinU32:
		return b.U32
	case types.BuiltinS64:
		return b.S64
	case types.BuiltinU64:
		return b.U64
	case types.BuiltinF32:
		return b.F32
	case types.BuiltinF64:
		return b.F64
	case types.BuiltinWChar:
		return b.WChar
	default:
		return types.NoTypeID
	}
}
