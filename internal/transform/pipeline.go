package transform

import (
	"graft/internal/diag"
	"graft/internal/ir"
)

// Pipeline runs passes strictly sequentially: one full tree traversal
// per pass, single-threaded, so a later pass only ever observes the
// output of all earlier ones. Passes communicate only through the tree
// and its diagnostics.
type Pipeline struct {
	passes []*Pass
}

func NewPipeline(passes ...*Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Append adds passes to run after the existing ones.
func (pl *Pipeline) Append(passes ...*Pass) {
	pl.passes = append(pl.passes, passes...)
}

// Run rewrites every file of the library through every pass. Files that
// hit a Fatal diagnostic are left untouched.
func (pl *Pipeline) Run(lib *ir.Library) {
	for _, pass := range pl.passes {
		for _, f := range lib.Files() {
			if f.Fatal() {
				continue
			}
			tc := &Context{Lib: lib, File: f}
			f.Roots = ApplyList(tc, pass, f.Roots)
			f.Loose = ApplyList(tc, pass, f.Loose)
		}
	}
}

// ApplyList rewrites an ordered collection of declarations through one
// pass. If every element's result is reference-identical to the original
// element at the same position (and the length is therefore unchanged),
// the returned collection IS the input collection, with no allocation. The
// first divergence copies the untouched prefix verbatim and appends the
// diverging and all subsequent results.
func ApplyList(tc *Context, pass *Pass, ids []ir.DeclID) []ir.DeclID {
	out := ids
	changed := false
	for i, id := range ids {
		r := applyOne(tc, pass, id)
		attachDiagnostics(tc, r)
		if !changed {
			if r.keeps(id) {
				continue
			}
			out = make([]ir.DeclID, 0, len(ids))
			out = append(out, ids[:i]...)
			changed = true
		}
		out = append(out, r.produced()...)
	}
	if !changed {
		return ids
	}
	return out
}

// applyOne transforms a single declaration: members first (records reuse
// the same list mechanism, so an untouched subtree costs nothing), then
// the declaration's own callback.
func applyOne(tc *Context, pass *Pass, id ir.DeclID) Result {
	d := tc.File.Decls.Get(id)
	if d == nil {
		return Keep(id)
	}

	current := id
	if d.Kind == ir.DeclRecord && len(d.Members) > 0 {
		newMembers := ApplyList(tc, pass, d.Members)
		if !sameSlice(newMembers, d.Members) {
			// Whole-node replacement: the record with changed members is
			// a brand-new node, never an in-place edit.
			newID, clone := tc.File.Decls.Clone(id)
			clone.Members = newMembers
			current = newID
		}
	}

	cb := pass.callbackFor(d.Kind)
	if cb == nil {
		if current == id {
			return Keep(id)
		}
		return Replace(current)
	}
	r := cb(tc, current)
	if current != id && r.keeps(current) {
		// The callback kept the rebuilt node; relative to the original
		// it is still a replacement.
		return Replace(current).withDiags(r.diags)
	}
	return r
}

func (r Result) withDiags(diags []diag.Diagnostic) Result {
	r.diags = append(r.diags, diags...)
	return r
}

func attachDiagnostics(tc *Context, r Result) {
	if len(r.diags) == 0 {
		return
	}
	produced := r.produced()
	if len(produced) == 0 {
		for _, d := range r.diags {
			tc.File.Report(d)
		}
		return
	}
	// Merge into the first produced node; fan-out diagnostics belong to
	// the node that replaced the original.
	for _, d := range r.diags {
		tc.File.ReportOn(produced[0], d)
	}
}

// sameSlice is reference identity for DeclID collections: same length
// and same backing start.
func sameSlice(a, b []ir.DeclID) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
