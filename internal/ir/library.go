package ir

import (
	"fmt"
	"sync"

	"graft/internal/diag"
	"graft/internal/source"
)

// Library is the root of the declaration tree. It owns the files, hands
// out library-unique names for anonymous entities, and is the final sink
// all file diagnostics flow into.
//
// The name counter and the file list are the only state shared across
// files, so independent files may be translated concurrently.
type Library struct {
	mu             sync.Mutex
	files          []*File
	anonSeq        uint64
	maxDiagnostics int
}

// NewLibrary creates an empty library. maxDiagnostics bounds each file's
// diagnostic bag.
func NewLibrary(maxDiagnostics int) *Library {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	return &Library{maxDiagnostics: maxDiagnostics}
}

// NewFile registers a file and returns it.
func (l *Library) NewFile(path string, src source.FileID) *File {
	l.mu.Lock()
	defer l.mu.Unlock()
	f := newFile(FileID(len(l.files)), path, src, l.maxDiagnostics) //nolint:gosec // file counts are small
	l.files = append(l.files, f)
	return f
}

// Files returns the registered files in registration order.
func (l *Library) Files() []*File {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*File(nil), l.files...)
}

// AnonymousName allocates a library-unique name for an anonymous entity.
func (l *Library) AnonymousName(prefix string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.anonSeq++
	return fmt.Sprintf("__%s_%d", prefix, l.anonSeq)
}

// HasErrors reports whether any file recorded an Error or Fatal.
func (l *Library) HasErrors() bool {
	for _, f := range l.Files() {
		if f.Errored() {
			return true
		}
	}
	return false
}

// CollectDiagnostics merges every file's diagnostics (file scope first,
// then per reachable declaration in tree order) into one bag. Only
// declarations still in the tree contribute: nodes replaced during a pass
// fell out of it, and their diagnostics were carried onto the
// replacement. Order within a file is preserved. A header pulled into
// several units repeats its diagnostics verbatim; exact repeats collapse
// at this boundary.
func (l *Library) CollectDiagnostics() *diag.Bag {
	out := diag.NewBag(l.maxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: out})
	for _, f := range l.Files() {
		for _, dg := range f.Bag().Items() {
			rep.Report(dg)
		}
		var walk func(ids []DeclID)
		walk = func(ids []DeclID) {
			for _, id := range ids {
				d := f.Decls.Get(id)
				if d == nil {
					continue
				}
				for _, dg := range d.Diags {
					rep.Report(dg)
				}
				walk(d.Members)
			}
		}
		walk(f.Roots)
		walk(f.Loose)
	}
	return out
}
