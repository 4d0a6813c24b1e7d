package ir

import (
	"fmt"
	"slices"
	"sort"

	"graft/internal/diag"
	"graft/internal/source"
	"graft/internal/types"
)

// FileID indexes a file within its library.
type FileID uint32

// File owns everything translated from one primary header: the
// declaration arena, the ordered root and loose declaration lists, the
// insert-once cursor-to-declaration mapping, and the cursor consumption
// bookkeeping for the completeness self-check.
type File struct {
	ID    FileID
	Path  string
	Src   source.FileID
	Decls *Decls
	Types *types.Interner

	// Roots holds root-capable declarations in translation order; Loose
	// holds declarations that still need a synthetic container.
	Roots []DeclID
	Loose []DeclID

	// NamespaceImports collects namespaces referenced from outside the
	// current emission context, in first-crossing order.
	NamespaceImports []string

	byCursor    map[string]DeclID
	discovered  map[string]struct{}
	unprocessed map[string]struct{}

	bag     *diag.Bag
	errored bool
	fatal   bool
}

func newFile(id FileID, path string, src source.FileID, maxDiagnostics int) *File {
	return &File{
		ID:          id,
		Path:        path,
		Src:         src,
		Decls:       NewDecls(0),
		Types:       types.NewInterner(),
		byCursor:    make(map[string]DeclID),
		discovered:  make(map[string]struct{}),
		unprocessed: make(map[string]struct{}),
		bag:         diag.NewBag(maxDiagnostics),
	}
}

// Report records a diagnostic against the file scope. Error latches the
// error flag permanently; Fatal additionally stops the file.
func (f *File) Report(d diag.Diagnostic) {
	f.bag.Add(d)
	if d.Severity >= diag.SevError {
		f.errored = true
	}
	if d.Severity == diag.SevFatal {
		f.fatal = true
	}
}

// ReportOn attaches a diagnostic to a declaration and aggregates its
// severity into the file flags.
func (f *File) ReportOn(id DeclID, d diag.Diagnostic) {
	if decl := f.Decls.Get(id); decl != nil {
		decl.Diags = append(decl.Diags, d)
	}
	if d.Severity >= diag.SevError {
		f.errored = true
	}
	if d.Severity == diag.SevFatal {
		f.fatal = true
	}
}

// Errored reports whether any Error or Fatal diagnostic was recorded.
func (f *File) Errored() bool { return f.errored }

// Fatal reports whether the file was stopped outright.
func (f *File) Fatal() bool { return f.fatal }

// Bag exposes the file-scope diagnostics.
func (f *File) Bag() *diag.Bag { return f.bag }

// Associate maps a source identity to its translated declaration,
// insertion-once. A second attempt fails and keeps the original mapping.
func (f *File) Associate(cursor string, id DeclID) error {
	if prev, ok := f.byCursor[cursor]; ok {
		return fmt.Errorf("cursor %q already associated with declaration %d", cursor, prev)
	}
	f.byCursor[cursor] = id
	return nil
}

// DeclByCursor looks up the declaration translated from a source identity.
func (f *File) DeclByCursor(cursor string) (DeclID, bool) {
	id, ok := f.byCursor[cursor]
	return id, ok
}

// Discover registers a cursor as belonging to this file. Every
// discovered cursor must be consumed exactly once before the file's
// translation is considered complete.
func (f *File) Discover(cursor string) {
	if _, ok := f.discovered[cursor]; ok {
		return
	}
	f.discovered[cursor] = struct{}{}
	f.unprocessed[cursor] = struct{}{}
}

// Consume marks a discovered cursor as handled (translated or
// deliberately skipped). Consuming twice, or consuming a cursor never
// discovered under this file, is an error the caller diagnoses.
func (f *File) Consume(cursor string) error {
	if _, ok := f.discovered[cursor]; !ok {
		return fmt.Errorf("cursor %q was never discovered under %s", cursor, f.Path)
	}
	if _, ok := f.unprocessed[cursor]; !ok {
		return fmt.Errorf("cursor %q consumed twice", cursor)
	}
	delete(f.unprocessed, cursor)
	return nil
}

// Unprocessed returns the sorted identities of cursors discovered but
// never consumed, for the completeness self-check.
func (f *File) Unprocessed() []string {
	out := make([]string, 0, len(f.unprocessed))
	for c := range f.unprocessed {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// AddNamespaceImport records a namespace crossing once. Reports whether
// this call was the first crossing.
func (f *File) AddNamespaceImport(ns string) bool {
	if slices.Contains(f.NamespaceImports, ns) {
		return false
	}
	f.NamespaceImports = append(f.NamespaceImports, ns)
	return true
}

// AddRoot appends a root-capable declaration in translation order.
func (f *File) AddRoot(id DeclID) {
	f.Roots = append(f.Roots, id)
}

// AddLoose appends a declaration awaiting a container.
func (f *File) AddLoose(id DeclID) {
	f.Loose = append(f.Loose, id)
}

// Reparent moves child from its current container to newParent's member
// list. Exactly one container owns a declaration at any moment: the old
// owner drops it in the same step the new one gains it.
func (f *File) Reparent(child, newParent DeclID) error {
	c := f.Decls.Get(child)
	p := f.Decls.Get(newParent)
	if c == nil || p == nil {
		return fmt.Errorf("reparent: invalid declaration id")
	}
	if !f.removeFromOwner(child) {
		return fmt.Errorf("reparent: declaration %d has no current owner", child)
	}
	p.Members = append(p.Members, child)
	c.Parent = newParent
	return nil
}

func (f *File) removeFromOwner(child DeclID) bool {
	if i := slices.Index(f.Roots, child); i >= 0 {
		f.Roots = slices.Delete(f.Roots, i, i+1)
		return true
	}
	if i := slices.Index(f.Loose, child); i >= 0 {
		f.Loose = slices.Delete(f.Loose, i, i+1)
		return true
	}
	c := f.Decls.Get(child)
	if c == nil || !c.Parent.IsValid() {
		return false
	}
	p := f.Decls.Get(c.Parent)
	if p == nil {
		return false
	}
	if i := slices.Index(p.Members, child); i >= 0 {
		p.Members = slices.Delete(p.Members, i, i+1)
		return true
	}
	return false
}

// QualifiedName reconstructs the emission name of a declaration by
// walking its parent chain outward and emitting nested-name prefixes.
// Parents erased from the output (enums represented as bare constants)
// contribute no prefix.
func (f *File) QualifiedName(id DeclID) string {
	d := f.Decls.Get(id)
	if d == nil {
		return ""
	}
	name := d.Name
	for p := d.Parent; p.IsValid(); {
		parent := f.Decls.Get(p)
		if parent == nil {
			break
		}
		if !(parent.Kind == DeclEnum && parent.AsConstants) {
			name = parent.Name + "." + name
		}
		p = parent.Parent
	}
	return name
}

// CheckOwnership verifies that every reachable declaration is owned by
// exactly one container. Debug-time guard for reparenting bugs.
func (f *File) CheckOwnership() error {
	owners := make(map[DeclID]int, f.Decls.Len())
	note := func(id DeclID) {
		owners[id]++
	}
	for _, id := range f.Roots {
		note(id)
	}
	for _, id := range f.Loose {
		note(id)
	}
	for i := 1; i <= f.Decls.Len(); i++ {
		d := f.Decls.Get(DeclID(i)) //nolint:gosec // bounded by Len
		for _, m := range d.Members {
			note(m)
		}
	}
	for id, n := range owners {
		if n > 1 {
			return fmt.Errorf("declaration %d (%s) is owned by %d containers", id, f.Decls.Get(id).Name, n)
		}
	}
	return nil
}
