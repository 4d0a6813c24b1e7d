// Package transform applies ordered rewriting passes over a declaration
// tree. A pass is a pure function from one declaration to a result:
// the identical DeclID (no-op), one replacement, or zero-to-many
// declarations. Change detection is reference identity: a structurally
// equal but freshly allocated replacement counts as a change.
package transform

import (
	"graft/internal/diag"
	"graft/internal/ir"
)

// Context carries the tree a pass is rewriting.
type Context struct {
	Lib  *ir.Library
	File *ir.File
}

// Result is the outcome of applying a pass to one declaration.
// The zero Result is not valid; build one with Keep, Replace, Drop or
// Expand.
type Result struct {
	one   ir.DeclID
	many  []ir.DeclID
	fan   bool
	diags []diag.Diagnostic
}

// Keep returns the declaration unchanged, the explicit no-op. It
// allocates nothing.
func Keep(id ir.DeclID) Result {
	return Result{one: id}
}

// Replace substitutes exactly one new declaration for the original.
func Replace(id ir.DeclID) Result {
	return Result{one: id}
}

// Drop removes the declaration from its collection.
func Drop() Result {
	return Result{fan: true}
}

// Expand substitutes zero or more declarations for the original.
func Expand(ids ...ir.DeclID) Result {
	return Result{many: ids, fan: true}
}

// WithDiagnostic attaches a diagnostic produced while processing the
// node. It is merged into the node's accumulated diagnostics (or the
// file's, when every produced node vanished).
func (r Result) WithDiagnostic(d diag.Diagnostic) Result {
	r.diags = append(r.diags, d)
	return r
}

// keeps reports whether the result is reference-identical to id.
func (r Result) keeps(id ir.DeclID) bool {
	return !r.fan && r.one == id
}

// produced returns the declaration IDs the result yields.
func (r Result) produced() []ir.DeclID {
	if r.fan {
		return r.many
	}
	return []ir.DeclID{r.one}
}

// Callback rewrites one declaration.
type Callback func(tc *Context, id ir.DeclID) Result

// Pass holds one callable per declaration kind. A nil callable is an
// implicit Keep. Default fires for kinds without a dedicated callable.
type Pass struct {
	Name        string
	Function    Callback
	StaticField Callback
	Record      Callback
	Enum        Callback
	Field       Callback
	Default     Callback
}

func (p *Pass) callbackFor(kind ir.DeclKind) Callback {
	var cb Callback
	switch kind {
	case ir.DeclFunction:
		cb = p.Function
	case ir.DeclStaticField:
		cb = p.StaticField
	case ir.DeclRecord:
		cb = p.Record
	case ir.DeclEnum:
		cb = p.Enum
	case ir.DeclField:
		cb = p.Field
	}
	if cb == nil {
		cb = p.Default
	}
	return cb
}
