package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Translation walk
	TrInfo                Code = 1000
	TrUnsupportedDecl     Code = 1001 // templates, alias declarations
	TrNoMeaningDecl       Code = 1002 // using directives, friends, access specifiers
	TrUnhandledCursor     Code = 1003
	TrFieldOutsideLayout  Code = 1004
	TrDuplicateDecl       Code = 1005
	TrLooseGroupReuse     Code = 1006
	TrCursorConsumedTwice Code = 1007
	TrCursorNotDiscovered Code = 1008
	TrFrontEndFailure     Code = 1009

	// Type reduction
	RedInfo                Code = 2000
	RedReferenceDegraded   Code = 2001
	RedArrayReturn         Code = 2002
	RedArrayParamDecay     Code = 2003
	RedDependentArray      Code = 2004
	RedIncompleteArray     Code = 2005
	RedBuiltinSizeMismatch Code = 2006
	RedOpaquePointer       Code = 2007
	RedSizeMatchedFallback Code = 2008
	RedSmallestFallback    Code = 2009

	// Transformation pipeline
	XfInfo Code = 3000

	// Symbol resolution
	SymInfo           Code = 4000
	SymUnknown        Code = 4001
	SymExportOnly     Code = 4002
	SymAmbiguous      Code = 4003
	SymOrdinalBinding Code = 4004
	SymNameFormRare   Code = 4005
	SymKindMismatch   Code = 4006

	// Import library input
	LibInfo       Code = 5000
	LibReadFailed Code = 5001
	LibBadSchema  Code = 5002
)

func (c Code) String() string {
	return fmt.Sprintf("G%04d", uint16(c))
}
