// Package translate walks a native translation unit and populates the
// declaration tree. The walk consumes every cursor belonging to the
// primary file exactly once; layout facts for records come from the
// layout collaborator, never from the cursors themselves.
package translate

import (
	"fmt"
	"path/filepath"
	"strings"

	"graft/internal/diag"
	"graft/internal/frontend"
	"graft/internal/ir"
	"graft/internal/layout"
	"graft/internal/source"
	"graft/internal/types"
)

// TranslateFile translates one unit into a fresh file of lib. The
// returned file is always usable; failures surface as diagnostics on
// it, not as an error.
func TranslateFile(lib *ir.Library, layouts layout.Provider, path string, src source.FileID, root frontend.Cursor) *ir.File {
	f := lib.NewFile(path, src)
	if root == nil {
		f.Report(diag.NewFatal(diag.TrFrontEndFailure, source.None(),
			fmt.Sprintf("front end produced no translation unit for %s", path)))
		return f
	}
	// The collaborator call can be expensive (it crosses into the native
	// parser); memoize per file. Per-file scope keeps the cache off the
	// shared path when units translate in parallel.
	w := &walker{lib: lib, f: f, layouts: layout.NewCachingProvider(layouts)}
	w.walk(root, ir.NoDeclID)
	w.groupLoose()
	return f
}

type walker struct {
	lib     *ir.Library
	f       *ir.File
	layouts layout.Provider
	ns      []string
}

func (w *walker) namespace() string {
	return strings.Join(w.ns, "::")
}

// walk dispatches one cursor. Rules, in priority order: unsupported
// declarations are consumed inert with an Ignored diagnostic; structural
// nodes recurse; no-meaning nodes are consumed; translatable kinds build
// declarations; a field cursor reaching this dispatch means the layout
// collaborator was bypassed; unrecognized kinds warn and stay unconsumed
// so the completeness check surfaces them.
func (w *walker) walk(c frontend.Cursor, parent ir.DeclID) {
	if !w.primaryFile(c) {
		return
	}
	w.f.Discover(c.USR())
	switch c.Kind() {
	case frontend.CursorTranslationUnit, frontend.CursorLinkageSpec:
		w.consume(c)
		for _, ch := range c.Children() {
			w.walk(ch, parent)
		}
	case frontend.CursorNamespace:
		w.consume(c)
		w.ns = append(w.ns, c.Spelling())
		for _, ch := range c.Children() {
			w.walk(ch, parent)
		}
		w.ns = w.ns[:len(w.ns)-1]
	case frontend.CursorTemplate, frontend.CursorTypedef:
		w.f.Report(diag.NewIgnored(diag.TrUnsupportedDecl, c.Location(),
			fmt.Sprintf("%s %q is not translatable", c.Kind(), c.Spelling())))
		w.consumeTree(c)
	case frontend.CursorUsing, frontend.CursorFriend, frontend.CursorBaseSpecifier,
		frontend.CursorAccessSpecifier, frontend.CursorAttribute:
		w.f.Report(diag.NewIgnored(diag.TrNoMeaningDecl, c.Location(),
			fmt.Sprintf("%s carries no output meaning", c.Kind())))
		w.consumeTree(c)
	case frontend.CursorRecord:
		if !c.IsDefinition() {
			// Forward declarations produce nothing; the definition does.
			w.consume(c)
			return
		}
		w.translateRecord(c, parent)
	case frontend.CursorEnum:
		w.translateEnum(c, parent)
	case frontend.CursorFunction, frontend.CursorMethod:
		w.translateFunction(c, parent)
	case frontend.CursorField:
		w.f.Report(diag.NewError(diag.TrFieldOutsideLayout, c.Location(),
			fmt.Sprintf("field %q reached the cursor walk; fields are only discovered through record layout enumeration", c.Spelling())))
		w.consume(c)
	case frontend.CursorVar:
		w.translateVar(c, parent)
	case frontend.CursorEnumConstant:
		// Carried by the owning enum's value list.
		w.consume(c)
	default:
		w.f.Report(diag.NewWarning(diag.TrUnhandledCursor, c.Location(),
			fmt.Sprintf("no translation rule for %s %q", c.Kind(), c.Spelling())))
	}
}

// primaryFile reports whether the cursor lives in the unit's own file.
// Declarations pulled in from included headers reach the walk through
// the translation-unit root but belong to the unit that owns their
// header; they are skipped before discovery so the completeness check
// never counts them. Cursors without a location pass.
func (w *walker) primaryFile(c frontend.Cursor) bool {
	loc := c.Location()
	return loc.IsNone() || loc.File == w.f.Src
}

func (w *walker) consume(c frontend.Cursor) {
	if err := w.f.Consume(c.USR()); err != nil {
		w.f.Report(diag.NewError(diag.TrCursorConsumedTwice, c.Location(), err.Error()))
	}
}

// consumeTree marks a cursor and every descendant consumed-as-inert.
func (w *walker) consumeTree(c frontend.Cursor) {
	w.f.Discover(c.USR())
	w.consume(c)
	for _, ch := range c.Children() {
		w.consumeTree(ch)
	}
}

// attach places a freshly translated declaration under its owner:
// a container's member list, the file roots, or the loose list.
func (w *walker) attach(id, parent ir.DeclID) {
	if parent.IsValid() {
		p := w.f.Decls.Get(parent)
		p.Members = append(p.Members, id)
		return
	}
	d := w.f.Decls.Get(id)
	if d.RootCapable() {
		w.f.AddRoot(id)
		return
	}
	d.Loose = true
	w.f.AddLoose(id)
}

func (w *walker) associate(c frontend.Cursor, id ir.DeclID) {
	if err := w.f.Associate(c.USR(), id); err != nil {
		w.f.ReportOn(id, diag.NewError(diag.TrDuplicateDecl, c.Location(), err.Error()))
	}
}

func (w *walker) translateRecord(c frontend.Cursor, parent ir.DeclID) {
	w.consume(c)
	name := c.Spelling()
	if name == "" {
		name = w.lib.AnonymousName("Record")
	}
	id := w.f.Decls.New(ir.Decl{
		Kind:      ir.DeclRecord,
		Name:      name,
		Namespace: w.namespace(),
		Parent:    parent,
		Cursor:    c.USR(),
		Span:      c.Location(),
	})
	w.associate(c, id)
	w.attach(id, parent)

	lay, layErr := w.layouts.RecordLayout(c)
	if layErr != nil {
		w.f.ReportOn(id, diag.NewError(diag.TrFrontEndFailure, c.Location(),
			fmt.Sprintf("record layout unavailable: %v", layErr)))
	} else {
		d := w.f.Decls.Get(id)
		d.Size = lay.Size
		d.Alignment = lay.Alignment
		d.IsCpp = lay.IsCppRecord
		d.NonVirtualSize = lay.NonVirtualSize
		d.NonVirtualAlignment = lay.NonVirtualAlignment
		for i := range lay.Fields {
			fid := w.translateField(id, &lay.Fields[i])
			// Re-fetch: translateField grew the arena.
			w.f.Decls.Get(id).Members = append(w.f.Decls.Get(id).Members, fid)
		}
	}

	// Methods and nested declarations come from the child cursors. Field
	// cursors were already handled through the layout; consume them here.
	for _, ch := range c.Children() {
		if ch.Kind() == frontend.CursorField {
			w.f.Discover(ch.USR())
			w.consume(ch)
			continue
		}
		w.walk(ch, id)
	}

	if layErr == nil {
		for i := range lay.VTables {
			vid := w.translateVTable(id, &lay.VTables[i])
			w.f.Decls.Get(id).Members = append(w.f.Decls.Get(id).Members, vid)
		}
	}
}

func (w *walker) translateField(record ir.DeclID, field *layout.Field) ir.DeclID {
	loc := source.None()
	if field.Declaration != nil {
		loc = field.Declaration.Location()
	}
	name := field.Name
	if name == "" {
		name = syntheticFieldName(field.Kind, w.lib)
	}

	typ := w.f.Types.Builtins().VoidPtr
	var diags []diag.Diagnostic
	if field.Type != nil {
		typ, diags = w.reduce(field.Type, ctxField, loc)
	}

	id := w.f.Decls.New(ir.Decl{
		Kind:          ir.DeclField,
		Name:          name,
		Parent:        record,
		Span:          loc,
		Type:          typ,
		Offset:        field.Offset,
		FieldKind:     field.Kind,
		IsBitField:    field.IsBitField,
		BitFieldStart: field.BitFieldStart,
		BitFieldWidth: field.BitFieldWidth,
		IsPrimaryBase: field.IsPrimaryBase,
	})
	for _, d := range diags {
		w.f.ReportOn(id, d)
	}
	return id
}

// syntheticFieldName names the implicit slots a layout exposes.
func syntheticFieldName(kind layout.FieldKind, lib *ir.Library) string {
	switch kind {
	case layout.FieldVTablePtr:
		return "__vtable_ptr"
	case layout.FieldNonVirtualBase:
		return "__base"
	case layout.FieldVirtualBaseTablePtr:
		return "__vbtable_ptr"
	case layout.FieldVTorDisp:
		return "__vtordisp"
	case layout.FieldVirtualBase:
		return "__virtual_base"
	default:
		return lib.AnonymousName("Field")
	}
}

func (w *walker) translateVTable(record ir.DeclID, vt *layout.VTable) ir.DeclID {
	slots := make([]ir.VTableSlot, 0, len(vt.Entries))
	for _, e := range vt.Entries {
		s := ir.VTableSlot{Kind: e.Kind, Offset: e.Offset}
		if e.Kind.IsFunction() && e.Method != nil {
			if did, ok := w.f.DeclByCursor(e.Method.USR()); ok {
				s.Target = did
			}
		}
		slots = append(slots, s)
	}
	return w.f.Decls.New(ir.Decl{
		Kind:   ir.DeclVTable,
		Name:   "vtable",
		Parent: record,
		Slots:  slots,
	})
}

func (w *walker) translateEnum(c frontend.Cursor, parent ir.DeclID) {
	w.consumeTree(c)
	name := c.Spelling()
	asConstants := false
	if name == "" {
		// An anonymous enum has no named type to emit; its enumerators
		// surface as bare constants.
		name = w.lib.AnonymousName("Enum")
		asConstants = true
	}
	under, diags := w.reduce(c.EnumUnderlying(), ctxEnumUnderlying, c.Location())

	values := c.EnumValues()
	consts := make([]ir.EnumConstant, len(values))
	for i, v := range values {
		consts[i] = ir.EnumConstant{Name: v.Name, Value: v.Value, Loc: v.Loc}
	}

	id := w.f.Decls.New(ir.Decl{
		Kind:        ir.DeclEnum,
		Name:        name,
		Namespace:   w.namespace(),
		Parent:      parent,
		Cursor:      c.USR(),
		Span:        c.Location(),
		Underlying:  under,
		Constants:   consts,
		AsConstants: asConstants,
	})
	w.associate(c, id)
	w.attach(id, parent)
	for _, d := range diags {
		w.f.ReportOn(id, d)
	}
}

func (w *walker) translateFunction(c frontend.Cursor, parent ir.DeclID) {
	w.consumeTree(c)
	result, diags := w.reduce(c.ResultType(), ctxReturn, c.Location())

	srcParams := c.Params()
	params := make([]ir.Param, len(srcParams))
	for i, p := range srcParams {
		pt, pd := w.reduce(p.Type, ctxParameter, p.Loc)
		params[i] = ir.Param{Name: p.Name, Type: pt, Loc: p.Loc}
		diags = append(diags, pd...)
	}

	id := w.f.Decls.New(ir.Decl{
		Kind:      ir.DeclFunction,
		Name:      c.Spelling(),
		Mangled:   c.Mangled(),
		Namespace: w.namespace(),
		Parent:    parent,
		Cursor:    c.USR(),
		Span:      c.Location(),
		Result:    result,
		Params:    params,
		Conv:      convFrom(c.CallConv()),
		IsVirtual: c.IsVirtual(),
		IsMethod:  c.Kind() == frontend.CursorMethod,
	})
	w.associate(c, id)
	w.attach(id, parent)
	for _, d := range diags {
		w.f.ReportOn(id, d)
	}
}

func (w *walker) translateVar(c frontend.Cursor, parent ir.DeclID) {
	w.consumeTree(c)
	typ, diags := w.reduce(c.Type(), ctxField, c.Location())
	id := w.f.Decls.New(ir.Decl{
		Kind:      ir.DeclStaticField,
		Name:      c.Spelling(),
		Mangled:   c.Mangled(),
		Namespace: w.namespace(),
		Parent:    parent,
		Cursor:    c.USR(),
		Span:      c.Location(),
		Type:      typ,
	})
	w.associate(c, id)
	w.attach(id, parent)
	for _, d := range diags {
		w.f.ReportOn(id, d)
	}
}

// groupLoose gives every file exactly one root grouping for its loose
// declarations: a synthetic container named after the file stem. A
// same-named translated record is reused rather than shadowed, with a
// Warning flagging the collision.
func (w *walker) groupLoose() {
	if len(w.f.Loose) == 0 {
		return
	}
	stem := fileStem(w.f.Path)
	var container ir.DeclID
	for _, rid := range w.f.Roots {
		d := w.f.Decls.Get(rid)
		if d.Kind == ir.DeclRecord && d.Name == stem {
			container = rid
			w.f.ReportOn(rid, diag.NewWarning(diag.TrLooseGroupReuse, d.Span,
				fmt.Sprintf("loose declarations were grouped into existing record %q; rename the record or the file to avoid the collision", stem)))
			break
		}
	}
	if !container.IsValid() {
		container = w.f.Decls.New(ir.Decl{
			Kind:        ir.DeclRecord,
			Name:        stem,
			Synthesized: true,
		})
		w.f.AddRoot(container)
	}
	loose := append([]ir.DeclID(nil), w.f.Loose...)
	for _, id := range loose {
		if err := w.f.Reparent(id, container); err != nil {
			w.f.Report(diag.NewError(diag.TrDuplicateDecl, source.None(),
				fmt.Sprintf("grouping loose declarations: %v", err)))
			return
		}
	}
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func convFrom(c frontend.CallConv) types.CallConv {
	switch c {
	case frontend.CallC:
		return types.CallConvC
	case frontend.CallStdCall:
		return types.CallConvStdCall
	case frontend.CallThisCall:
		return types.CallConvThisCall
	case frontend.CallFastCall:
		return types.CallConvFastCall
	default:
		return types.CallConvUnknown
	}
}
