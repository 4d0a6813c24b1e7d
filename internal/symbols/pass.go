package symbols

import (
	"graft/internal/implib"
	"graft/internal/ir"
	"graft/internal/transform"
)

// NewResolvePass adapts a populated table into a pipeline pass that
// binds functions and static fields to their import modules. Resolved
// declarations are replaced wholesale with the binding filled in;
// unresolved ones keep their identity (and pick up the lookup's
// diagnostics).
func NewResolvePass(t *Table, opts Options) *transform.Pass {
	return &transform.Pass{
		Name: "resolve-symbols",
		Function: func(tc *transform.Context, id ir.DeclID) transform.Result {
			return resolveDecl(tc, t, opts, id, implib.KindCode)
		},
		StaticField: func(tc *transform.Context, id ir.DeclID) transform.Result {
			return resolveDecl(tc, t, opts, id, implib.KindData)
		},
	}
}

func resolveDecl(tc *transform.Context, t *Table, opts Options, id ir.DeclID, kind implib.SymbolKind) transform.Result {
	d := tc.File.Decls.Get(id)
	if d.ImportModule != "" {
		// Already bound, nothing to resolve.
		return transform.Keep(id)
	}
	symbol := d.Mangled
	if symbol == "" {
		symbol = d.Name
	}
	res := t.Resolve(symbol, kind, d.IsVirtual, d.Span, opts)

	r := transform.Keep(id)
	if res.Found {
		newID, nd := tc.File.Decls.Clone(id)
		nd.ImportModule = res.Module
		nd.ImportName = res.Name
		r = transform.Replace(newID)
	}
	for _, dg := range res.Diags {
		r = r.WithDiagnostic(dg)
	}
	return r
}
