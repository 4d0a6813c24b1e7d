package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"graft/internal/diag"
	"graft/internal/implib"
	"graft/internal/source"
	"graft/internal/symbols"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Inspect and query import library tables",
}

var (
	symbolsResolveLibs    []string
	symbolsResolveKind    string
	symbolsResolveVirtual bool
	symbolsResolveStrict  bool
	symbolsPackOutput     string
)

func init() {
	symbolsCmd.AddCommand(symbolsShowCmd)
	symbolsCmd.AddCommand(symbolsResolveCmd)
	symbolsCmd.AddCommand(symbolsPackCmd)

	symbolsResolveCmd.Flags().StringArrayVar(&symbolsResolveLibs, "lib", nil, "import library table (.gtbl), repeatable")
	symbolsResolveCmd.Flags().StringVar(&symbolsResolveKind, "kind", "code", "symbol kind to resolve as (code|data)")
	symbolsResolveCmd.Flags().BoolVar(&symbolsResolveVirtual, "virtual", false, "treat the symbol as a virtual method")
	symbolsResolveCmd.Flags().BoolVar(&symbolsResolveStrict, "strict", false, "fail when the symbol cannot be resolved")

	symbolsPackCmd.Flags().StringVarP(&symbolsPackOutput, "output", "o", "", "output table path (default: input with .gtbl)")
}

var symbolsShowCmd = &cobra.Command{
	Use:   "show <table.gtbl>",
	Short: "Print the imports and exports of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := implib.ReadFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "library %s\n", lib.Name)
		fmt.Fprintf(out, "  imports: %d\n", len(lib.Imports))
		for _, imp := range lib.Imports {
			extra := ""
			if imp.Form == implib.FormOrdinal {
				extra = fmt.Sprintf(" ordinal=%d", imp.Ordinal)
			}
			fmt.Fprintf(out, "    %-8s %-12s %s <- %s%s\n", imp.Kind, imp.Form, imp.Symbol, imp.Module, extra)
		}
		fmt.Fprintf(out, "  exports: %d\n", len(lib.Exports))
		for _, name := range lib.Exports {
			fmt.Fprintf(out, "    %s\n", name)
		}
		return nil
	},
}

var symbolsResolveCmd = &cobra.Command{
	Use:   "resolve <symbol>",
	Short: "Resolve one mangled name against a set of tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbolsResolve,
}

func runSymbolsResolve(cmd *cobra.Command, args []string) error {
	if len(symbolsResolveLibs) == 0 {
		return fmt.Errorf("at least one --lib table is required")
	}
	var kind implib.SymbolKind
	switch strings.ToLower(symbolsResolveKind) {
	case "code":
		kind = implib.KindCode
	case "data":
		kind = implib.KindData
	default:
		return fmt.Errorf("invalid --kind %q (expected code|data)", symbolsResolveKind)
	}

	table := symbols.NewTable()
	// The CLI always wants the candidate list on ambiguity.
	if err := table.EnableSourceTracking(); err != nil {
		return err
	}
	for _, path := range symbolsResolveLibs {
		lib, err := implib.ReadFile(path)
		if err != nil {
			return err
		}
		table.Register(lib)
	}

	opts := symbols.Options{
		ErrorOnMissing:        symbolsResolveStrict,
		ErrorOnMissingVirtual: symbolsResolveStrict,
		WarnOnAmbiguous:       true,
	}
	res := table.Resolve(args[0], kind, symbolsResolveVirtual, source.None(), opts)

	out := cmd.OutOrStdout()
	if res.Found {
		fmt.Fprintf(out, "%s -> %s!%s\n", args[0], res.Module, res.Name)
	} else {
		fmt.Fprintf(out, "%s -> unresolved\n", args[0])
	}
	failed := false
	for _, d := range res.Diags {
		fmt.Fprintf(out, "  %s %s: %s\n", d.Severity, d.Code, d.Message)
		if d.Severity >= diag.SevError {
			failed = true
		}
	}
	if failed {
		cmd.SilenceUsage = true
		return fmt.Errorf("resolution failed")
	}
	return nil
}

// tableDefinition is the TOML shape `symbols pack` consumes.
type tableDefinition struct {
	Name    string             `toml:"name"`
	Exports []string           `toml:"exports"`
	Imports []importDefinition `toml:"imports"`
}

type importDefinition struct {
	Symbol  string `toml:"symbol"`
	Module  string `toml:"module"`
	Kind    string `toml:"kind"`    // code|data, default code
	Form    string `toml:"form"`    // name|noprefix|undecorated|ordinal, default name
	Ordinal uint16 `toml:"ordinal"` // required for form = "ordinal"
}

var symbolsPackCmd = &cobra.Command{
	Use:   "pack <definition.toml>",
	Short: "Build a binary table from a TOML definition",
	Long: `Pack converts a human-editable TOML description of a library's
imports and exports into the binary table the resolver consumes.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbolsPack,
}

func runSymbolsPack(cmd *cobra.Command, args []string) error {
	var def tableDefinition
	if _, err := toml.DecodeFile(args[0], &def); err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", args[0], err)
	}
	lib, err := libraryFromDefinition(&def)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	output := symbolsPackOutput
	if output == "" {
		output = strings.TrimSuffix(args[0], ".toml") + ".gtbl"
	}
	if err := implib.WriteFile(output, lib); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d imports, %d exports)\n",
		output, len(lib.Imports), len(lib.Exports))
	return nil
}

func libraryFromDefinition(def *tableDefinition) (*implib.Library, error) {
	lib := &implib.Library{
		Name:    strings.TrimSpace(def.Name),
		Exports: def.Exports,
	}
	for i, imp := range def.Imports {
		if strings.TrimSpace(imp.Symbol) == "" {
			return nil, fmt.Errorf("import %d: missing symbol", i)
		}
		if strings.TrimSpace(imp.Module) == "" {
			return nil, fmt.Errorf("import %d (%s): missing module", i, imp.Symbol)
		}
		kind, err := parseSymbolKind(imp.Kind)
		if err != nil {
			return nil, fmt.Errorf("import %d (%s): %w", i, imp.Symbol, err)
		}
		form, err := parseNameForm(imp.Form)
		if err != nil {
			return nil, fmt.Errorf("import %d (%s): %w", i, imp.Symbol, err)
		}
		if form == implib.FormOrdinal && imp.Ordinal == 0 {
			return nil, fmt.Errorf("import %d (%s): ordinal form needs a non-zero ordinal", i, imp.Symbol)
		}
		lib.Imports = append(lib.Imports, implib.Import{
			Symbol:  imp.Symbol,
			Module:  imp.Module,
			Ordinal: imp.Ordinal,
			Form:    form,
			Kind:    kind,
		})
	}
	return lib, nil
}

func parseSymbolKind(s string) (implib.SymbolKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "code":
		return implib.KindCode, nil
	case "data":
		return implib.KindData, nil
	default:
		return 0, fmt.Errorf("invalid kind %q (expected code|data)", s)
	}
}

func parseNameForm(s string) (implib.NameForm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return implib.FormName, nil
	case "noprefix", "no-prefix":
		return implib.FormNoPrefix, nil
	case "undecorated":
		return implib.FormUndecorated, nil
	case "ordinal":
		return implib.FormOrdinal, nil
	default:
		return 0, fmt.Errorf("invalid form %q (expected name|noprefix|undecorated|ordinal)", s)
	}
}
