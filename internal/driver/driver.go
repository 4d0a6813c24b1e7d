// Package driver batches translation: it feeds units through the
// translator, runs the transformation pipeline and the symbol
// resolution pass, and aggregates diagnostics. Per-file translation can
// run in parallel; passes always run single-threaded over the finished
// tree.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"graft/internal/diag"
	"graft/internal/frontend"
	"graft/internal/ir"
	"graft/internal/layout"
	"graft/internal/observ"
	"graft/internal/source"
	"graft/internal/transform"
	"graft/internal/translate"
)

// Unit is one header to translate.
type Unit struct {
	Path string
	Src  source.FileID
	Root frontend.Cursor
}

// Request configures one batch translation.
type Request struct {
	Units   []Unit
	Layouts layout.Provider

	// Passes run in order after every unit is translated. Resolve, when
	// set, runs last as its own stage.
	Passes  []*transform.Pass
	Resolve *transform.Pass

	// Jobs caps concurrent per-file translation; <= 1 means sequential.
	Jobs           int
	MaxDiagnostics int

	// Progress receives stage events; nil means silent.
	Progress Progress
	// Timer, when set, records per-stage durations.
	Timer *observ.Timer
}

// Result is the translated library plus per-unit files in request order.
type Result struct {
	Library *ir.Library
	Files   []*ir.File
}

// Diagnostics merges every file's diagnostics in tree order.
func (r *Result) Diagnostics() *diag.Bag {
	return r.Library.CollectDiagnostics()
}

// HasErrors reports whether any unit recorded an Error or Fatal.
func (r *Result) HasErrors() bool {
	return r.Library.HasErrors()
}

// Run executes the batch. The returned error covers infrastructure
// failures (cancellation) only; translation problems are diagnostics on
// the result.
func Run(ctx context.Context, req Request) (*Result, error) {
	lib := ir.NewLibrary(req.MaxDiagnostics)
	res := &Result{
		Library: lib,
		Files:   make([]*ir.File, len(req.Units)),
	}
	emit := req.Progress
	if emit == nil {
		emit = func(Event) {}
	}

	for _, u := range req.Units {
		emit(Event{File: u.Path, Stage: StageTranslate, Status: StatusQueued})
	}

	phase := -1
	if req.Timer != nil {
		phase = req.Timer.Begin("translate")
	}
	if err := translateAll(ctx, req, lib, res.Files, emit); err != nil {
		return res, err
	}
	if req.Timer != nil {
		req.Timer.End(phase, "")
	}

	if len(req.Passes) > 0 {
		runStage(req, lib, emit, StageTransform, "transform", req.Passes...)
	}
	if req.Resolve != nil {
		runStage(req, lib, emit, StageResolve, "resolve", req.Resolve)
	}
	return res, nil
}

func translateAll(ctx context.Context, req Request, lib *ir.Library, files []*ir.File, emit Progress) error {
	translateOne := func(i int) {
		u := req.Units[i]
		emit(Event{File: u.Path, Stage: StageTranslate, Status: StatusWorking})
		f := translate.TranslateFile(lib, req.Layouts, u.Path, u.Src, u.Root)
		files[i] = f
		status := StatusDone
		if f.Errored() {
			status = StatusError
		}
		emit(Event{File: u.Path, Stage: StageTranslate, Status: status})
	}

	if req.Jobs <= 1 || len(req.Units) <= 1 {
		for i := range req.Units {
			if err := ctx.Err(); err != nil {
				return err
			}
			translateOne(i)
		}
		return nil
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Units)))
	for i := range req.Units {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// Slot i is this goroutine's alone; the library serializes
			// its own shared state internally.
			translateOne(i)
			return nil
		})
	}
	return g.Wait()
}

func runStage(req Request, lib *ir.Library, emit Progress, stage Stage, name string, passes ...*transform.Pass) {
	emit(Event{Stage: stage, Status: StatusWorking})
	phase := -1
	if req.Timer != nil {
		phase = req.Timer.Begin(name)
	}
	transform.NewPipeline(passes...).Run(lib)
	if req.Timer != nil {
		req.Timer.End(phase, "")
	}
	emit(Event{Stage: stage, Status: StatusDone})
}
