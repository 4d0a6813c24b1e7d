package source

import "testing"

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID must map to the empty string, got %q, ok=%v", s, ok)
	}

	id1 := in.Intern("translate")
	if id1 == NoStringID {
		t.Error("Intern must not return NoStringID for a non-empty string")
	}
	if id2 := in.Intern("translate"); id1 != id2 {
		t.Errorf("same string must intern to the same ID: %d != %d", id1, id2)
	}
	if s, ok := in.Lookup(id1); !ok || s != "translate" {
		t.Errorf("Lookup returned %q, ok=%v", s, ok)
	}
	if id3 := in.Intern("transform"); id3 == id1 {
		t.Error("distinct strings must intern to distinct IDs")
	}
	if in.Len() != 3 { // "", "translate", "transform"
		t.Errorf("Len = %d, want 3", in.Len())
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("demo.h", []byte("struct A;\nint x;\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{7, LineCol{1, 8}},
		{9, LineCol{1, 10}}, // the newline still belongs to line 1
		{10, LineCol{2, 1}},
		{14, LineCol{2, 5}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}

	if got := fs.Get(id).GetLine(2); got != "int x;" {
		t.Errorf("GetLine(2) = %q, want %q", got, "int x;")
	}
	if got := fs.Get(id).GetLine(5); got != "" {
		t.Errorf("GetLine(5) = %q, want empty", got)
	}
}

func TestSpanNone(t *testing.T) {
	if !None().IsNone() {
		t.Error("None() must report IsNone")
	}
	if (Span{File: 0}).IsNone() {
		t.Error("file 0 is a real file, not the none sentinel")
	}
	start, end := NewFileSet().Resolve(None())
	if start != (LineCol{}) || end != (LineCol{}) {
		t.Errorf("resolving the none span must yield zero positions, got %+v %+v", start, end)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	got := a.Cover(b)
	if got.Start != 2 || got.End != 8 {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if a.Cover(other) != a {
		t.Error("Cover must ignore spans from a different file")
	}
}
