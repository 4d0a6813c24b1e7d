package frontend

import "fmt"

// CursorKind classifies native AST nodes. The set covers exactly what the
// translation walk dispatches on; everything else surfaces as Unknown.
type CursorKind uint8

const (
	CursorUnknown CursorKind = iota
	CursorTranslationUnit
	CursorNamespace
	CursorLinkageSpec
	CursorRecord // struct / class / union
	CursorEnum
	CursorFunction
	CursorMethod
	CursorField
	CursorVar
	CursorEnumConstant
	CursorTypedef  // alias as a declaration
	CursorTemplate // template declaration or specialization
	CursorUsing    // using directive / namespace alias
	CursorFriend
	CursorBaseSpecifier
	CursorAccessSpecifier
	CursorAttribute
)

func (k CursorKind) String() string {
	switch k {
	case CursorTranslationUnit:
		return "translation-unit"
	case CursorNamespace:
		return "namespace"
	case CursorLinkageSpec:
		return "linkage-spec"
	case CursorRecord:
		return "record"
	case CursorEnum:
		return "enum"
	case CursorFunction:
		return "function"
	case CursorMethod:
		return "method"
	case CursorField:
		return "field"
	case CursorVar:
		return "var"
	case CursorEnumConstant:
		return "enum-constant"
	case CursorTypedef:
		return "typedef"
	case CursorTemplate:
		return "template"
	case CursorUsing:
		return "using"
	case CursorFriend:
		return "friend"
	case CursorBaseSpecifier:
		return "base-specifier"
	case CursorAccessSpecifier:
		return "access-specifier"
	case CursorAttribute:
		return "attribute"
	default:
		return fmt.Sprintf("CursorKind(%d)", k)
	}
}

// TypeKind classifies native types for the reduction loop.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeChar  // plain char, signedness unspecified
	TypeSChar // signed char
	TypeUChar
	TypeWChar
	TypeShort
	TypeUShort
	TypeInt
	TypeUInt
	TypeLong
	TypeULong
	TypeLongLong
	TypeULongLong
	TypeFloat
	TypeDouble
	TypePointer
	TypeLValueReference
	TypeRValueReference
	TypeConstantArray
	TypeIncompleteArray
	TypeDependentArray
	TypeElaborated // namespace qualification wrapper
	TypeAlias      // typedef sugar
	TypeRecord
	TypeEnum
	TypeFunctionProto
	TypeUnexposed
)

func (k TypeKind) String() string {
	switch k {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeChar:
		return "char"
	case TypeSChar:
		return "signed char"
	case TypeUChar:
		return "unsigned char"
	case TypeWChar:
		return "wchar_t"
	case TypeShort:
		return "short"
	case TypeUShort:
		return "unsigned short"
	case TypeInt:
		return "int"
	case TypeUInt:
		return "unsigned int"
	case TypeLong:
		return "long"
	case TypeULong:
		return "unsigned long"
	case TypeLongLong:
		return "long long"
	case TypeULongLong:
		return "unsigned long long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypePointer:
		return "pointer"
	case TypeLValueReference:
		return "lvalue-reference"
	case TypeRValueReference:
		return "rvalue-reference"
	case TypeConstantArray:
		return "constant-array"
	case TypeIncompleteArray:
		return "incomplete-array"
	case TypeDependentArray:
		return "dependent-array"
	case TypeElaborated:
		return "elaborated"
	case TypeAlias:
		return "alias"
	case TypeRecord:
		return "record"
	case TypeEnum:
		return "enum"
	case TypeFunctionProto:
		return "function-proto"
	case TypeUnexposed:
		return "unexposed"
	default:
		return fmt.Sprintf("TypeKind(%d)", k)
	}
}

// CallConv is the native calling convention of a function type.
type CallConv uint8

const (
	CallC CallConv = iota
	CallStdCall
	CallThisCall
	CallFastCall
	CallUnknown
)
