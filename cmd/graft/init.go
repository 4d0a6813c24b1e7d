package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new graft project",
	Long: `Initialize a new graft project by creating a project manifest (graft.toml)
and an example import table definition (libs/example.toml). If [path|name] is
omitted, initializes the current directory. If a non-existing name is provided,
a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Determine project name from directory basename
	name := filepath.Base(target)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "graft-project"
	}

	// Create manifest file if not exists
	manifestPath := filepath.Join(target, "graft.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	manifest := buildDefaultManifest(name)
	if err := os.WriteFile(manifestPath, []byte(manifest), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Create the example table definition if not exists
	examplePath := filepath.Join(target, "libs", "example.toml")
	createdExample := false
	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(examplePath), 0o755); err != nil {
			return fmt.Errorf("failed to create libs directory: %w", err)
		}
		if err := os.WriteFile(examplePath, []byte(defaultTableDefinition()), 0o600); err != nil {
			return fmt.Errorf("failed to write example table definition: %w", err)
		}
		createdExample = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized graft project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - graft.toml\n")
	if createdExample {
		fmt.Fprintf(os.Stdout, "  - libs/example.toml\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - libs/example.toml (existing)\n")
	}
	return nil
}

// buildDefaultManifest returns a minimal TOML manifest for a graft project
// using the provided package name.
func buildDefaultManifest(name string) string {
	// Minimal TOML manifest used as a project marker.
	return fmt.Sprintf(`# Graft project manifest
[package]
name = "%s"
version = "0.1.0"

[translate]
# Import library tables, built with: graft symbols pack libs/example.toml
libs = []
jobs = 0
`, name)
}

// defaultTableDefinition returns the example import table definition
// created on init. Pack it into a binary table with `graft symbols pack`.
func defaultTableDefinition() string {
	return `# Example import table definition.
# Build the binary table with: graft symbols pack libs/example.toml
name = "example.dll"

exports = []

[[imports]]
symbol = "_mixer_create"
module = "example.dll"
kind = "code"
form = "name"
`
}
