// Package implib models import-library symbol tables: the per-module
// lists of import and export records a resolution pass registers before
// binding translated declarations to their source modules.
package implib

import "fmt"

// NameForm is how an import record encodes the symbol's name.
type NameForm uint8

const (
	// FormName binds by the full decorated name as stored.
	FormName NameForm = iota
	// FormNoPrefix binds by the name with one leading mangle
	// indicator stripped.
	FormNoPrefix
	// FormUndecorated binds by the fully undecorated name.
	FormUndecorated
	// FormOrdinal binds by ordinal only; the name is a hint at best.
	FormOrdinal
)

func (f NameForm) String() string {
	switch f {
	case FormName:
		return "name"
	case FormNoPrefix:
		return "no-prefix"
	case FormUndecorated:
		return "undecorated"
	case FormOrdinal:
		return "ordinal"
	default:
		return fmt.Sprintf("NameForm(%d)", f)
	}
}

// SymbolKind distinguishes code imports from data imports.
type SymbolKind uint8

const (
	KindCode SymbolKind = iota
	KindData
)

func (k SymbolKind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("SymbolKind(%d)", k)
	}
}

// Import is one import record: symbol available from a dynamic module.
type Import struct {
	// Symbol is the mangled name the record is keyed by.
	Symbol string
	// Module is the file name of the module supplying the symbol.
	Module string
	// Ordinal is the binding ordinal for FormOrdinal records, the hint
	// otherwise.
	Ordinal uint16
	Form    NameForm
	Kind    SymbolKind
}

// Library is one import library's table: imports plus the exported
// symbol names its object members expose. Exports never make a symbol
// resolvable on their own.
type Library struct {
	// Name is the library file the table was read from.
	Name    string
	Imports []Import
	Exports []string
}
