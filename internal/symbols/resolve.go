package symbols

import (
	"fmt"
	"strings"

	"graft/internal/diag"
	"graft/internal/implib"
	"graft/internal/source"
)

// Options tunes the resolution policy.
type Options struct {
	// ErrorOnMissing makes unknown and export-only symbols an Error.
	// When false, unknown symbols resolve silently to nothing and
	// export-only ones downgrade to a Warning.
	ErrorOnMissing bool
	// ErrorOnMissingVirtual extends ErrorOnMissing to virtual methods.
	// Virtual methods are frequently never exported, so their absence
	// gets a separate switch.
	ErrorOnMissingVirtual bool
	// WarnOnAmbiguous emits a Warning when more than one distinct
	// import source exists for a symbol.
	WarnOnAmbiguous bool
}

// DefaultOptions errors on missing non-virtual symbols and warns on
// ambiguity.
func DefaultOptions() Options {
	return Options{ErrorOnMissing: true, WarnOnAmbiguous: true}
}

// Resolution is the outcome of looking up one symbol. Diags carries
// everything the lookup wants reported regardless of success.
type Resolution struct {
	Found  bool
	Module string
	Name   string
	Diags  []diag.Diagnostic
}

func (r *Resolution) warn(code diag.Code, loc source.Span, msg string) {
	r.Diags = append(r.Diags, diag.NewWarning(code, loc, msg))
}

// Resolve binds one mangled name. kind is what the requesting
// declaration is (code for functions, data for static fields) and is
// cross-checked against the import record. isVirtual selects the
// missing-symbol policy for virtual methods.
func (t *Table) Resolve(symbol string, kind implib.SymbolKind, isVirtual bool, loc source.Span, opts Options) Resolution {
	var r Resolution
	e := t.entries[symbol]

	missingIsError := opts.ErrorOnMissing
	if isVirtual {
		missingIsError = opts.ErrorOnMissingVirtual
	}

	switch {
	case e == nil:
		if missingIsError {
			r.Diags = append(r.Diags, diag.NewError(diag.SymUnknown, loc,
				fmt.Sprintf("symbol %q was not found in any registered library", symbol)))
		}
		return r
	case !e.hasImport:
		msg := fmt.Sprintf("symbol %q is exported but never imported; no source module can be chosen (%d export sighting(s))", symbol, e.exportOnly)
		if missingIsError {
			r.Diags = append(r.Diags, diag.NewError(diag.SymExportOnly, loc, msg))
		} else {
			r.warn(diag.SymExportOnly, loc, msg)
		}
		return r
	}

	imp := e.imp
	r.Found = true
	r.Module = imp.Module
	r.Name = adjustedName(symbol, imp, loc, &r)

	if len(e.sources) > 1 && opts.WarnOnAmbiguous {
		msg := fmt.Sprintf("symbol %q has %d distinct import sources; using first-registered %s", symbol, len(e.sources), imp.Module)
		if len(e.candidates) > 0 {
			var names []string
			for _, c := range e.candidates {
				names = append(names, fmt.Sprintf("%s (%s, %s)", c.Import.Module, c.Library, c.Import.Form))
			}
			msg += "; candidates: " + strings.Join(names, ", ")
		}
		r.warn(diag.SymAmbiguous, loc, msg)
	}

	if imp.Kind != kind {
		r.warn(diag.SymKindMismatch, loc,
			fmt.Sprintf("symbol %q is declared as %s but imported as %s", symbol, kind, imp.Kind))
	}
	return r
}

// adjustedName re-encodes the import name per its name form. Ordinal
// imports become the "#<ordinal>" sentinel; no-prefix and undecorated
// forms apply best-effort stripping and keep their rarity warning.
func adjustedName(symbol string, imp implib.Import, loc source.Span, r *Resolution) string {
	switch imp.Form {
	case implib.FormName:
		return symbol
	case implib.FormOrdinal:
		r.warn(diag.SymOrdinalBinding, loc,
			fmt.Sprintf("symbol %q binds by ordinal %d; not all consumers support ordinal imports", symbol, imp.Ordinal))
		return fmt.Sprintf("#%d", imp.Ordinal)
	case implib.FormNoPrefix:
		r.warn(diag.SymNameFormRare, loc,
			fmt.Sprintf("symbol %q uses the rarely seen no-prefix name form; the stripped name is unverified", symbol))
		return stripMangleIndicator(symbol)
	case implib.FormUndecorated:
		r.warn(diag.SymNameFormRare, loc,
			fmt.Sprintf("symbol %q uses the rarely seen undecorated name form; the stripped name is unverified", symbol))
		name := stripMangleIndicator(symbol)
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		return name
	default:
		return symbol
	}
}

// stripMangleIndicator drops a single leading mangle-indicator
// character when present.
func stripMangleIndicator(symbol string) string {
	if len(symbol) > 1 {
		switch symbol[0] {
		case '_', '?', '@':
			return symbol[1:]
		}
	}
	return symbol
}
