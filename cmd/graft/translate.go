package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"graft/internal/diagfmt"
	"graft/internal/driver"
	"graft/internal/frontend"
	"graft/internal/frontend/synth"
	"graft/internal/implib"
	"graft/internal/ir"
	"graft/internal/layout"
	"graft/internal/observ"
	"graft/internal/source"
	"graft/internal/symbols"
	"graft/internal/transform"
)

var (
	translateJobs           int
	translateUI             string
	translateLibs           []string
	translateFormat         string
	translateShowSource     bool
	translateErrorOnMissing bool
	translateStrictVirtual  bool
	translateVerboseAmbig   bool
)

func init() {
	translateCmd.Flags().IntVar(&translateJobs, "jobs", 0, "concurrent file translations (0 = manifest or sequential)")
	translateCmd.Flags().StringVar(&translateUI, "ui", "auto", "interactive progress (auto|on|off)")
	translateCmd.Flags().StringArrayVar(&translateLibs, "lib", nil, "import library table (.gtbl) to resolve symbols against, repeatable")
	translateCmd.Flags().StringVar(&translateFormat, "format", "pretty", "diagnostic output format (pretty|json)")
	translateCmd.Flags().BoolVar(&translateShowSource, "show-source", false, "print offending source lines under diagnostics")
	translateCmd.Flags().BoolVar(&translateErrorOnMissing, "error-on-missing", false, "treat unresolved symbols as errors")
	translateCmd.Flags().BoolVar(&translateStrictVirtual, "error-on-missing-virtual", false, "extend --error-on-missing to virtual methods")
	translateCmd.Flags().BoolVar(&translateVerboseAmbig, "verbose-ambiguity", false, "list every candidate library on ambiguous symbols")
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate the built-in demo unit into a declaration tree",
	Long: `Translate runs the full pipeline (translation walk, transformation
passes, symbol resolution) over a built-in synthetic demo unit and dumps
the resulting declaration tree with its diagnostics. Plugging a real
parser front end in replaces the demo input; the pipeline is the same.`,
	Args: cobra.NoArgs,
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	useTUI, err := resolveSwitch("ui", translateUI, os.Stdout)
	if err != nil {
		return err
	}
	switch strings.ToLower(translateFormat) {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", translateFormat)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	timings, _ := cmd.Flags().GetBool("timings")
	colorMode, _ := cmd.Flags().GetString("color")
	maxDiagnostics, _ := cmd.Flags().GetInt("max-diagnostics")
	colorOn, err := resolveSwitch("color", colorMode, os.Stdout)
	if err != nil {
		return err
	}

	jobs := translateJobs
	libs := translateLibs
	manifest, ok, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	if ok {
		if jobs == 0 {
			jobs = manifest.Config.Translate.Jobs
		}
		libs = append(libs, resolveManifestLibs(manifest)...)
	}

	fset := source.NewFileSet()
	layouts := layout.NewMapProvider()
	units := demoUnits(fset, layouts)

	resolve, err := buildResolvePass(libs)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}
	req := driver.Request{
		Units:          units,
		Layouts:        layouts,
		Resolve:        resolve,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Timer:          timer,
	}

	var res *driver.Result
	if useTUI {
		paths := make([]string, len(units))
		for i, u := range units {
			paths[i] = u.Path
		}
		res, err = runWithUI(cmd.Context(), "graft translate", paths, req)
	} else {
		if !quiet {
			req.Progress = plainProgress(os.Stderr)
		}
		res, err = driver.Run(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if err := ir.Dump(os.Stdout, res.Library); err != nil {
		return err
	}

	bag := res.Diagnostics()
	bag.Sort()
	if strings.ToLower(translateFormat) == "json" {
		if err := diagfmt.JSON(os.Stdout, bag, fset, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              maxDiagnostics,
		}); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(os.Stdout, bag, fset, diagfmt.PrettyOpts{
			Color:      colorOn,
			ShowNotes:  true,
			ShowSource: translateShowSource,
		})
	}

	if timer != nil {
		fmt.Fprint(os.Stderr, timer.Summary())
	}

	if res.HasErrors() {
		cmd.SilenceUsage = true
		return fmt.Errorf("translation finished with errors")
	}
	return nil
}

// plainProgress prints one line per stage change for non-interactive runs.
func plainProgress(out *os.File) driver.Progress {
	return func(ev driver.Event) {
		if ev.Status == driver.StatusQueued {
			return
		}
		if ev.File == "" {
			fmt.Fprintf(out, "%s: %s\n", ev.Stage, ev.Status)
			return
		}
		fmt.Fprintf(out, "%s: %s (%s)\n", ev.Stage, ev.File, ev.Status)
	}
}

func buildResolvePass(libs []string) (*transform.Pass, error) {
	if len(libs) == 0 {
		return nil, nil
	}
	table := symbols.NewTable()
	if translateVerboseAmbig {
		if err := table.EnableSourceTracking(); err != nil {
			return nil, err
		}
	}
	for _, path := range libs {
		lib, err := implib.ReadFile(path)
		if err != nil {
			return nil, err
		}
		table.Register(lib)
	}
	opts := symbols.Options{
		ErrorOnMissing:        translateErrorOnMissing,
		ErrorOnMissingVirtual: translateStrictVirtual,
		WarnOnAmbiguous:       true,
	}
	return symbols.NewResolvePass(table, opts), nil
}

// demoUnits fabricates the built-in demo input: a polymorphic record
// with a registered layout, a named enum, a free function, and a second
// unit with loose file-scope declarations.
func demoUnits(fset *source.FileSet, layouts *layout.MapProvider) []driver.Unit {
	mixer := synth.NewUnit(fset, "mixer.h")

	channels := mixer.Field("channels", synth.Builtin(frontend.TypeInt))
	process := mixer.Method("process", "_ZN5Mixer7processEv", synth.Void()).Virtual()
	rec := mixer.Record("Mixer", channels, process)
	layouts.Set(rec, &layout.RecordLayout{
		Fields: []layout.Field{
			{Kind: layout.FieldVTablePtr, Offset: 0, Type: synth.Pointer(synth.Pointer(synth.Void()))},
			{Kind: layout.FieldNormal, Offset: 8, Name: "channels", Type: synth.Builtin(frontend.TypeInt), Declaration: channels},
		},
		VTables: []layout.VTable{{Entries: []layout.VTableEntry{
			{Kind: layout.VTableOffsetToTop},
			{Kind: layout.VTableRTTI},
			{Kind: layout.VTableFunctionPointer, Method: process},
		}}},
		Size:        16,
		Alignment:   8,
		IsCppRecord: true,
	})

	mixer.Add(
		rec,
		mixer.Enum("Format", synth.Builtin(frontend.TypeInt),
			mixer.EnumValue("FormatS16", 0),
			mixer.EnumValue("FormatF32", 1),
		),
		mixer.Function("mixer_create", "_mixer_create", synth.Pointer(synth.TypeOf(rec)),
			mixer.Param("channels", synth.Builtin(frontend.TypeInt)),
		),
	)

	globals := synth.NewUnit(fset, "globals.h")
	globals.Add(
		globals.Var("sample_rate", "_sample_rate", synth.Builtin(frontend.TypeLong)),
		globals.Function("shutdown", "_shutdown", synth.Void()),
	)

	return []driver.Unit{
		{Path: mixer.Path(), Src: mixer.FileID(), Root: mixer.Root()},
		{Path: globals.Path(), Src: globals.FileID(), Root: globals.Root()},
	}
}
