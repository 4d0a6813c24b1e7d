package driver

import (
	"context"
	"sync"
	"testing"

	"graft/internal/frontend"
	"graft/internal/frontend/synth"
	"graft/internal/ir"
	"graft/internal/layout"
	"graft/internal/observ"
	"graft/internal/source"
	"graft/internal/transform"
)

func makeUnits(t *testing.T, n int) []Unit {
	t.Helper()
	fset := source.NewFileSet()
	units := make([]Unit, 0, n)
	for i := 0; i < n; i++ {
		path := string(rune('a'+i)) + ".h"
		u := synth.NewUnit(fset, path)
		u.Add(u.Function("fn_"+path, "_fn_"+path, synth.Builtin(frontend.TypeInt)))
		units = append(units, Unit{Path: u.Path(), Src: u.FileID(), Root: u.Root()})
	}
	return units
}

func TestSequentialRunKeepsUnitOrder(t *testing.T) {
	units := makeUnits(t, 3)
	res, err := Run(context.Background(), Request{
		Units:          units,
		Layouts:        layout.NewMapProvider(),
		MaxDiagnostics: 50,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("files = %d", len(res.Files))
	}
	for i, f := range res.Files {
		if f == nil || f.Path != units[i].Path {
			t.Errorf("file %d = %v, want %s", i, f, units[i].Path)
		}
	}
	if res.HasErrors() {
		t.Errorf("unexpected errors: %v", res.Diagnostics().Items())
	}
}

func TestParallelRunMatchesSequential(t *testing.T) {
	units := makeUnits(t, 8)
	res, err := Run(context.Background(), Request{
		Units:          units,
		Layouts:        layout.NewMapProvider(),
		Jobs:           4,
		MaxDiagnostics: 50,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, f := range res.Files {
		if f == nil {
			t.Fatalf("file %d missing", i)
		}
		if f.Path != units[i].Path {
			t.Errorf("file %d = %s, want %s (request order, not completion order)", i, f.Path, units[i].Path)
		}
		if len(f.Roots) != 1 {
			t.Errorf("file %d roots = %v", i, f.Roots)
		}
	}
}

func TestStagesRunInOrderWithEvents(t *testing.T) {
	units := makeUnits(t, 2)

	var mu sync.Mutex
	var events []Event
	var touched []string
	rename := &transform.Pass{
		Name: "tag",
		Function: func(tc *transform.Context, id ir.DeclID) transform.Result {
			newID, d := tc.File.Decls.Clone(id)
			d.Name = d.Name + "_tagged"
			mu.Lock()
			touched = append(touched, d.Name)
			mu.Unlock()
			return transform.Replace(newID)
		},
	}

	timer := observ.NewTimer()
	res, err := Run(context.Background(), Request{
		Units:          units,
		Layouts:        layout.NewMapProvider(),
		Passes:         []*transform.Pass{rename},
		Resolve:        &transform.Pass{Name: "resolve-noop"},
		MaxDiagnostics: 50,
		Timer:          timer,
		Progress: func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(touched) != 2 {
		t.Errorf("pass touched %d decls, want 2", len(touched))
	}
	for _, f := range res.Files {
		d := f.Decls.Get(f.Roots[0])
		if len(d.Name) < 7 || d.Name[len(d.Name)-7:] != "_tagged" {
			t.Errorf("pipeline did not rewrite %q", d.Name)
		}
	}

	// Per-file translate events bracket the stage events.
	var stageOrder []Stage
	for _, ev := range events {
		if ev.File == "" {
			stageOrder = append(stageOrder, ev.Stage)
		}
	}
	want := []Stage{StageTransform, StageTransform, StageResolve, StageResolve}
	if len(stageOrder) != len(want) {
		t.Fatalf("stage events = %v", stageOrder)
	}
	for i := range want {
		if stageOrder[i] != want[i] {
			t.Fatalf("stage events = %v, want transform then resolve", stageOrder)
		}
	}

	report := timer.Report()
	if len(report.Phases) != 3 {
		t.Errorf("timer phases = %v, want translate/transform/resolve", report.Phases)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Request{
		Units:          makeUnits(t, 2),
		Layouts:        layout.NewMapProvider(),
		MaxDiagnostics: 50,
	})
	if err == nil {
		t.Fatal("a cancelled context must abort the batch")
	}
}
