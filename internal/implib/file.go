package implib

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Increment when the on-disk table format changes.
const tableSchemaVersion uint16 = 1

// tablePayload is the serialized shape of a Library.
type tablePayload struct {
	Schema  uint16
	Name    string
	Imports []Import
	Exports []string
}

// ErrBadSchema reports a table written by an incompatible version.
var ErrBadSchema = errors.New("implib: unsupported table schema")

// WriteFile serializes the library to path. The write is atomic: the
// payload goes to a temp file in the target directory first and is
// renamed into place only after a successful close.
func WriteFile(path string, lib *Library) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("implib: create dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("implib: create temp: %w", err)
	}
	tmp := f.Name()
	payload := &tablePayload{
		Schema:  tableSchemaVersion,
		Name:    lib.Name,
		Imports: lib.Imports,
		Exports: lib.Exports,
	}
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("implib: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("implib: close temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("implib: rename into place: %w", err)
	}
	return nil
}

// ReadFile deserializes a library table from path.
func ReadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("implib: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var payload tablePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("implib: decode %s: %w", path, err)
	}
	if payload.Schema != tableSchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d (%s)", ErrBadSchema, payload.Schema, tableSchemaVersion, path)
	}
	if payload.Name == "" {
		payload.Name = filepath.Base(path)
	}
	return &Library{
		Name:    payload.Name,
		Imports: payload.Imports,
		Exports: payload.Exports,
	}, nil
}
