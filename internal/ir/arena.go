package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Decls stores a file's declarations in a compact slice-based arena.
// Index 0 is reserved for NoDeclID. An arena belongs to exactly one file
// and is touched by one goroutine at a time (translation is per-file;
// passes run single-threaded).
type Decls struct {
	data []Decl
}

// NewDecls creates an arena with an optional capacity hint.
func NewDecls(capacity uint32) *Decls {
	if capacity == 0 {
		capacity = 32
	}
	return &Decls{
		data: make([]Decl, 1, capacity+1),
	}
}

// New allocates a declaration and returns its ID.
func (d *Decls) New(decl Decl) DeclID {
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil {
		panic(fmt.Errorf("decl arena overflow: %w", err))
	}
	id := DeclID(value)
	d.data = append(d.data, decl)
	return id
}

// Get returns the declaration pointer or nil if ID is invalid.
func (d *Decls) Get(id DeclID) *Decl {
	if !id.IsValid() || int(id) >= len(d.data) {
		return nil
	}
	return &d.data[id]
}

// Clone allocates a shallow copy of an existing declaration and returns
// the new ID and a pointer to edit before the copy escapes. Slices are
// shared with the original; replace them wholesale, never append in
// place.
func (d *Decls) Clone(id DeclID) (DeclID, *Decl) {
	src := d.Get(id)
	if src == nil {
		return NoDeclID, nil
	}
	newID := d.New(*src)
	return newID, d.Get(newID)
}

// Len reports the number of declarations excluding the sentinel.
func (d *Decls) Len() int { return len(d.data) - 1 }
