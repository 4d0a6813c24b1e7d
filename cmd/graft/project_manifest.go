package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package   packageConfig   `toml:"package"`
	Translate translateConfig `toml:"translate"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type translateConfig struct {
	// Libs are import library tables (.gtbl) to resolve symbols against.
	Libs []string `toml:"libs"`
	Jobs int      `toml:"jobs"`
}

func findGraftToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "graft.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findGraftToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// resolveManifestLibs turns the manifest's lib paths into absolute paths
// rooted at the manifest directory.
func resolveManifestLibs(manifest *projectManifest) []string {
	if manifest == nil {
		return nil
	}
	libs := make([]string, 0, len(manifest.Config.Translate.Libs))
	for _, lib := range manifest.Config.Translate.Libs {
		p := filepath.FromSlash(strings.TrimSpace(lib))
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(manifest.Root, p)
		}
		libs = append(libs, p)
	}
	return libs
}
