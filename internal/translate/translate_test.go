package translate

import (
	"testing"

	"graft/internal/diag"
	"graft/internal/frontend"
	"graft/internal/frontend/synth"
	"graft/internal/ir"
	"graft/internal/layout"
	"graft/internal/source"
)

func translateUnit(t *testing.T, u *synth.Unit, layouts layout.Provider) (*ir.Library, *ir.File) {
	t.Helper()
	lib := ir.NewLibrary(100)
	if layouts == nil {
		layouts = layout.NewMapProvider()
	}
	f := TranslateFile(lib, layouts, u.Path(), u.FileID(), u.Root())
	return lib, f
}

func declByName(t *testing.T, f *ir.File, ids []ir.DeclID, name string) (ir.DeclID, *ir.Decl) {
	t.Helper()
	for _, id := range ids {
		if d := f.Decls.Get(id); d != nil && d.Name == name {
			return id, d
		}
	}
	t.Fatalf("no declaration named %q in %v", name, ids)
	return ir.NoDeclID, nil
}

func TestTranslateRecordFromLayout(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "engine.h")
	method := u.Method("Update", "?Update@Engine@@UEAAXM@Z", synth.Void(), u.Param("dt", synth.Builtin(frontend.TypeFloat))).Virtual()
	ticks := u.Field("ticks", synth.Builtin(frontend.TypeLong))
	rec := u.Record("Engine", method, ticks)
	u.Add(rec)

	layouts := layout.NewMapProvider()
	layouts.Set(rec, &layout.RecordLayout{
		Fields: []layout.Field{
			{Kind: layout.FieldVTablePtr, Offset: 0, Type: synth.Pointer(synth.Pointer(synth.Void()))},
			{Kind: layout.FieldNormal, Offset: 8, Name: "ticks", Type: synth.Builtin(frontend.TypeLong), Declaration: ticks},
		},
		VTables: []layout.VTable{{Entries: []layout.VTableEntry{
			{Kind: layout.VTableOffsetToTop, Offset: 0},
			{Kind: layout.VTableRTTI},
			{Kind: layout.VTableFunctionPointer, Method: method},
		}}},
		Size:                16,
		Alignment:           8,
		IsCppRecord:         true,
		NonVirtualSize:      16,
		NonVirtualAlignment: 8,
	})

	_, f := translateUnit(t, u, layouts)

	if got := f.Unprocessed(); len(got) != 0 {
		t.Fatalf("unconsumed cursors: %v", got)
	}
	if len(f.Roots) != 1 {
		t.Fatalf("roots = %v", f.Roots)
	}
	recID := f.Roots[0]
	d := f.Decls.Get(recID)
	if d.Kind != ir.DeclRecord || d.Name != "Engine" || d.Size != 16 || !d.IsCpp {
		t.Fatalf("record = %+v", d)
	}
	if got, ok := f.DeclByCursor(rec.USR()); !ok || got != recID {
		t.Error("record cursor must map to its declaration")
	}

	// Members: layout fields first, then the method, then the vtable.
	if len(d.Members) != 4 {
		t.Fatalf("members = %d, want 4", len(d.Members))
	}
	vptr := f.Decls.Get(d.Members[0])
	if vptr.Kind != ir.DeclField || vptr.FieldKind != layout.FieldVTablePtr || vptr.Name != "__vtable_ptr" {
		t.Errorf("member 0 = %+v", vptr)
	}
	fld := f.Decls.Get(d.Members[1])
	if fld.Kind != ir.DeclField || fld.Name != "ticks" || fld.Offset != 8 {
		t.Errorf("member 1 = %+v", fld)
	}
	if fld.Type != f.Types.Builtins().S64 {
		t.Errorf("ticks type = %d, want s64", fld.Type)
	}
	m := f.Decls.Get(d.Members[2])
	if m.Kind != ir.DeclFunction || !m.IsMethod || !m.IsVirtual || m.Name != "Update" {
		t.Errorf("member 2 = %+v", m)
	}
	vt := f.Decls.Get(d.Members[3])
	if vt.Kind != ir.DeclVTable || len(vt.Slots) != 3 {
		t.Fatalf("member 3 = %+v", vt)
	}
	if vt.Slots[2].Kind != layout.VTableFunctionPointer || vt.Slots[2].Target != d.Members[2] {
		t.Errorf("vtable slot 2 = %+v, want target %d", vt.Slots[2], d.Members[2])
	}
	if f.Errored() {
		t.Errorf("unexpected errors: %v", f.Bag().Items())
	}
}

func TestTranslateRecordWithoutLayoutIsUnreliable(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "bad.h")
	u.Add(u.Record("Orphan"))

	_, f := translateUnit(t, u, nil) // empty provider: every lookup fails

	if len(f.Roots) != 1 {
		t.Fatalf("roots = %v", f.Roots)
	}
	d := f.Decls.Get(f.Roots[0])
	if len(d.Diags) != 1 || d.Diags[0].Code != diag.TrFrontEndFailure || d.Diags[0].Severity != diag.SevError {
		t.Errorf("diagnostics = %v, want one layout-failure error", d.Diags)
	}
	if !f.Errored() {
		t.Error("the error must latch the file flag")
	}
}

func TestForwardDeclarationsAreIgnored(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "fwd.h")
	fwd := u.ForwardRecord("Later")
	u.Add(fwd)

	_, f := translateUnit(t, u, nil)
	if len(f.Roots) != 0 {
		t.Errorf("roots = %v, want none", f.Roots)
	}
	if _, ok := f.DeclByCursor(fwd.USR()); ok {
		t.Error("a forward declaration must not produce a declaration")
	}
	if got := f.Unprocessed(); len(got) != 0 {
		t.Errorf("unconsumed: %v", got)
	}
}

func TestUnsupportedDeclsConsumeRecursively(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "tmpl.h")
	inner := u.Function("get", "_get", synth.Builtin(frontend.TypeInt))
	u.Add(u.Template("vec", inner))
	u.Add(u.Typedef("scalar", synth.Builtin(frontend.TypeFloat)))
	u.Add(u.Using("std"))

	_, f := translateUnit(t, u, nil)
	if got := f.Unprocessed(); len(got) != 0 {
		t.Errorf("unsupported subtrees must be consumed inert: %v", got)
	}
	if len(f.Roots) != 0 || len(f.Loose) != 0 {
		t.Errorf("nothing should translate, got roots %v loose %v", f.Roots, f.Loose)
	}
	if _, ok := f.DeclByCursor(inner.USR()); ok {
		t.Error("descendants of unsupported declarations must not translate")
	}
	if f.Errored() {
		t.Errorf("Ignored diagnostics must not latch errors: %v", f.Bag().Items())
	}
}

func TestStrayFieldCursorIsAnError(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "stray.h")
	u.Add(u.Field("orphan", synth.Builtin(frontend.TypeInt)))

	_, f := translateUnit(t, u, nil)
	if !f.Errored() {
		t.Fatal("a field reaching the walk bypassed the layout collaborator")
	}
	items := f.Bag().Items()
	if len(items) != 1 || items[0].Code != diag.TrFieldOutsideLayout {
		t.Errorf("diagnostics = %v", items)
	}
	if got := f.Unprocessed(); len(got) != 0 {
		t.Errorf("the field is consumed even though it is an error: %v", got)
	}
}

func TestUnknownCursorSurvivesToCompletenessCheck(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "odd.h")
	odd := u.Raw(frontend.CursorUnknown, "mystery")
	u.Add(odd)

	_, f := translateUnit(t, u, nil)
	items := f.Bag().Items()
	if len(items) != 1 || items[0].Code != diag.TrUnhandledCursor || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %v, want one unhandled-cursor warning", items)
	}
	got := f.Unprocessed()
	if len(got) != 1 || got[0] != odd.USR() {
		t.Errorf("Unprocessed = %v, want the unknown cursor", got)
	}
}

func TestLooseVariablesAreGrouped(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "globals.h")
	u.Add(u.Var("g_count", "_g_count", synth.Builtin(frontend.TypeInt)))
	u.Add(u.Var("g_scale", "_g_scale", synth.Builtin(frontend.TypeDouble)))

	_, f := translateUnit(t, u, nil)
	if len(f.Loose) != 0 {
		t.Fatalf("loose list must drain into the container, got %v", f.Loose)
	}
	if len(f.Roots) != 1 {
		t.Fatalf("roots = %v", f.Roots)
	}
	c := f.Decls.Get(f.Roots[0])
	if c.Kind != ir.DeclRecord || !c.Synthesized || c.Name != "globals" {
		t.Fatalf("container = %+v", c)
	}
	if len(c.Members) != 2 {
		t.Fatalf("members = %v", c.Members)
	}
	_, g := declByName(t, f, c.Members, "g_count")
	if g.Kind != ir.DeclStaticField || !g.Loose || g.Parent != f.Roots[0] {
		t.Errorf("g_count = %+v", g)
	}
	if err := f.CheckOwnership(); err != nil {
		t.Errorf("ownership: %v", err)
	}
}

func TestLooseGroupingReusesSameNamedRecord(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "engine.h")
	rec := u.Record("engine")
	u.Add(rec)
	u.Add(u.Var("g_state", "_g_state", synth.Builtin(frontend.TypeInt)))

	layouts := layout.NewMapProvider()
	layouts.Set(rec, &layout.RecordLayout{Size: 1, Alignment: 1})

	_, f := translateUnit(t, u, layouts)
	if len(f.Roots) != 1 {
		t.Fatalf("reuse must not add a second root: %v", f.Roots)
	}
	d := f.Decls.Get(f.Roots[0])
	if d.Synthesized {
		t.Error("the translated record was reused, not a synthetic one")
	}
	if len(d.Members) != 1 || f.Decls.Get(d.Members[0]).Name != "g_state" {
		t.Errorf("members = %v", d.Members)
	}
	found := false
	for _, dg := range d.Diags {
		if dg.Code == diag.TrLooseGroupReuse && dg.Severity == diag.SevWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("reuse must warn about the name collision: %v", d.Diags)
	}
}

func TestDuplicateCursorIsDiagnosed(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "dup.h")
	fn := u.Function("twice", "_twice", synth.Void())
	u.Add(fn)
	u.Add(fn) // the same cursor appears again

	_, f := translateUnit(t, u, nil)
	if !f.Errored() {
		t.Fatal("a second mapping attempt for one identity is an error")
	}
	id, ok := f.DeclByCursor(fn.USR())
	if !ok {
		t.Fatal("the first mapping must be retained")
	}
	if len(f.Roots) != 2 || f.Roots[0] != id {
		t.Errorf("roots = %v, first must be the original mapping %d", f.Roots, id)
	}
}

func TestNamespaceTrackingAndImports(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "vec.h")
	vec := u.Record("vec3")
	u.Add(u.Namespace("glm", vec))
	u.Add(u.Function("length", "_length", synth.Builtin(frontend.TypeFloat), u.Param("v", synth.Pointer(synth.TypeOf(vec)))))

	layouts := layout.NewMapProvider()
	layouts.Set(vec, &layout.RecordLayout{Size: 12, Alignment: 4})

	_, f := translateUnit(t, u, layouts)
	_, d := declByName(t, f, f.Roots, "vec3")
	if d.Namespace != "glm" {
		t.Errorf("namespace = %q, want glm", d.Namespace)
	}
	// The global-scope function referencing glm::vec3 crosses out of its
	// own (empty) namespace context.
	if len(f.NamespaceImports) != 1 || f.NamespaceImports[0] != "glm" {
		t.Errorf("NamespaceImports = %v, want [glm]", f.NamespaceImports)
	}
}

func TestAnonymousEnumBecomesConstants(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "flags.h")
	e := u.Enum("", synth.Builtin(frontend.TypeInt),
		u.EnumValue("FLAG_A", 1),
		u.EnumValue("FLAG_B", 2),
	).Anonymous()
	u.Add(e)
	u.Add(u.Var("g_flags", "_g_flags", synth.TypeOf(e)))

	_, f := translateUnit(t, u, nil)
	_, enumDecl := func() (ir.DeclID, *ir.Decl) {
		for _, id := range f.Roots {
			if d := f.Decls.Get(id); d.Kind == ir.DeclEnum {
				return id, d
			}
		}
		t.Fatal("no enum root")
		return ir.NoDeclID, nil
	}()
	if !enumDecl.AsConstants {
		t.Fatal("an anonymous enum is emitted as bare constants")
	}
	if enumDecl.Underlying != f.Types.Builtins().S32 {
		t.Errorf("underlying = %d, want s32", enumDecl.Underlying)
	}
	if len(enumDecl.Constants) != 2 || enumDecl.Constants[1].Name != "FLAG_B" || enumDecl.Constants[1].Value != 2 {
		t.Errorf("constants = %v", enumDecl.Constants)
	}

	// A use of the enum type substitutes the underlying integer, since
	// no named type will exist for it.
	container := f.Decls.Get(f.Roots[len(f.Roots)-1])
	_, v := declByName(t, f, container.Members, "g_flags")
	if v.Type != f.Types.Builtins().S32 {
		t.Errorf("variable type = %d, want the substituted s32", v.Type)
	}
}

func TestNilRootIsFatal(t *testing.T) {
	lib := ir.NewLibrary(100)
	f := TranslateFile(lib, layout.NewMapProvider(), "broken.h", 0, nil)
	if !f.Fatal() {
		t.Fatal("a missing translation unit stops the file")
	}
	items := f.Bag().Items()
	if len(items) != 1 || items[0].Code != diag.TrFrontEndFailure {
		t.Errorf("diagnostics = %v", items)
	}
}

func TestLinkageSpecIsTransparent(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "c_api.h")
	u.Add(u.LinkageSpec(u.Function("c_init", "c_init", synth.Void())))

	_, f := translateUnit(t, u, nil)
	if len(f.Roots) != 1 {
		t.Fatalf("roots = %v", f.Roots)
	}
	d := f.Decls.Get(f.Roots[0])
	if d.Kind != ir.DeclFunction || d.Name != "c_init" || d.Namespace != "" {
		t.Errorf("decl = %+v", d)
	}
	if got := f.Unprocessed(); len(got) != 0 {
		t.Errorf("unconsumed: %v", got)
	}
}

func TestIncludedHeaderCursorsAreSkipped(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "audio.h")
	local := u.Function("audio_open", "_audio_open", synth.Void())
	u.Add(local)

	// A declaration dragged in through an #include carries the header's
	// file, not the unit's own.
	header := synth.NewUnit(fset, "deps.h")
	foreign := header.Function("dep_init", "_dep_init", synth.Void())
	u.Add(foreign)

	_, f := translateUnit(t, u, nil)

	if _, ok := f.DeclByCursor(foreign.USR()); ok {
		t.Error("included-header function must not be translated")
	}
	if _, ok := f.DeclByCursor(local.USR()); !ok {
		t.Error("the unit's own function must still be translated")
	}
	// Skipped cursors are never discovered, so the completeness check
	// stays clean and nothing is reported against them.
	if got := f.Unprocessed(); len(got) != 0 {
		t.Errorf("unconsumed cursors: %v", got)
	}
	if f.Errored() {
		t.Errorf("unexpected errors: %v", f.Bag().Items())
	}
}
