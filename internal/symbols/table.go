// Package symbols resolves mangled names against registered import
// library tables and binds translated declarations to their source
// modules through a transformation pass.
package symbols

import (
	"errors"

	"graft/internal/implib"
)

// sourceKey identifies one effective import source. Two import records
// with equal keys are the same binding re-exported, not an ambiguity.
type sourceKey struct {
	module  string
	form    implib.NameForm
	ordinal uint16 // compared only for ordinal-form records
}

func keyOf(imp implib.Import) sourceKey {
	k := sourceKey{module: imp.Module, form: imp.Form}
	if imp.Form == implib.FormOrdinal {
		k.ordinal = imp.Ordinal
	}
	return k
}

// Candidate is one import source considered for a symbol, retained only
// under source tracking.
type Candidate struct {
	Library string
	Import  implib.Import
}

// entry aggregates everything registered under one mangled name.
type entry struct {
	imp        implib.Import // first-registered import, wins resolution
	hasImport  bool
	sources    []sourceKey // distinct effective import sources
	exportOnly int
	candidates []Candidate // populated only under source tracking
}

func (e *entry) addImport(lib string, imp implib.Import, track bool) {
	if !e.hasImport {
		e.imp = imp
		e.hasImport = true
	}
	k := keyOf(imp)
	known := false
	for _, s := range e.sources {
		if s == k {
			known = true
			break
		}
	}
	if !known {
		e.sources = append(e.sources, k)
	}
	if track {
		e.candidates = append(e.candidates, Candidate{Library: lib, Import: imp})
	}
}

// ErrTrackingTooLate reports an attempt to enable source tracking after
// input was already registered.
var ErrTrackingTooLate = errors.New("symbols: source tracking must be enabled before the first Register")

// Table maps mangled symbol names to their aggregated import/export
// knowledge. Not safe for concurrent mutation; register every library
// before handing the table to a pass.
type Table struct {
	entries    map[string]*entry
	track      bool
	registered bool
}

func NewTable() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// EnableSourceTracking turns on per-candidate retention for verbose
// ambiguity diagnostics. Registration order feeds the candidate lists,
// so tracking cannot be enabled once any library is in.
func (t *Table) EnableSourceTracking() error {
	if t.registered {
		return ErrTrackingTooLate
	}
	t.track = true
	return nil
}

// Register merges one library's records into the table. Import records
// for a name already known keep the first registration as the winner;
// export records only count sightings and never make a name resolvable.
func (t *Table) Register(lib *implib.Library) {
	t.registered = true
	for _, imp := range lib.Imports {
		t.entryFor(imp.Symbol).addImport(lib.Name, imp, t.track)
	}
	for _, name := range lib.Exports {
		t.entryFor(name).exportOnly++
	}
}

func (t *Table) entryFor(symbol string) *entry {
	e := t.entries[symbol]
	if e == nil {
		e = &entry{}
		t.entries[symbol] = e
	}
	return e
}

// Len returns the number of distinct symbol names known.
func (t *Table) Len() int {
	return len(t.entries)
}
