package implib

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func sampleLibrary() *Library {
	return &Library{
		Name: "Engine.lib",
		Imports: []Import{
			{Symbol: "?Update@Engine@@QEAAXM@Z", Module: "Engine.dll", Ordinal: 3, Form: FormName, Kind: KindCode},
			{Symbol: "_legacy_init", Module: "Engine.dll", Form: FormNoPrefix, Kind: KindCode},
			{Symbol: "g_tick_rate", Module: "Engine.dll", Ordinal: 12, Form: FormOrdinal, Kind: KindData},
		},
		Exports: []string{"?InternalHook@Engine@@AEAAXXZ"},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables", "engine.gtbl")
	want := sampleLibrary()
	if err := WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if len(got.Imports) != len(want.Imports) {
		t.Fatalf("Imports = %d records, want %d", len(got.Imports), len(want.Imports))
	}
	for i := range want.Imports {
		if got.Imports[i] != want.Imports[i] {
			t.Errorf("import %d = %+v, want %+v", i, got.Imports[i], want.Imports[i])
		}
	}
	if len(got.Exports) != 1 || got.Exports[0] != want.Exports[0] {
		t.Errorf("Exports = %v, want %v", got.Exports, want.Exports)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile(filepath.Join(dir, "t.gtbl"), sampleLibrary()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "t.gtbl" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory = %v, want only t.gtbl", names)
	}
}

func TestReadRejectsWrongSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.gtbl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	payload := tablePayload{Schema: tableSchemaVersion + 1, Name: "x"}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadFile(path); !errors.Is(err, ErrBadSchema) {
		t.Errorf("err = %v, want ErrBadSchema", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.gtbl")); err == nil {
		t.Error("reading a missing table must fail")
	}
}

func TestNameDefaultsToFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.gtbl")
	if err := WriteFile(path, &Library{Imports: sampleLibrary().Imports}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Name != "anon.gtbl" {
		t.Errorf("Name = %q, want anon.gtbl", got.Name)
	}
}
