package layout

import (
	"errors"
	"testing"

	"graft/internal/frontend"
	"graft/internal/frontend/synth"
	"graft/internal/source"
)

type countingProvider struct {
	next  Provider
	calls int
}

func (p *countingProvider) RecordLayout(c frontend.Cursor) (*RecordLayout, error) {
	p.calls++
	return p.next.RecordLayout(c)
}

func TestCachingProviderMemoizes(t *testing.T) {
	fset := source.NewFileSet()
	u := synth.NewUnit(fset, "cache.h")
	rec := u.Record("Point")
	other := u.Record("Size")

	mp := NewMapProvider()
	mp.Set(rec, &RecordLayout{Size: 8, Alignment: 4})

	counting := &countingProvider{next: mp}
	c := NewCachingProvider(counting)

	for i := 0; i < 3; i++ {
		l, err := c.RecordLayout(rec)
		if err != nil {
			t.Fatalf("RecordLayout: %v", err)
		}
		if l.Size != 8 {
			t.Fatalf("Size = %d, want 8", l.Size)
		}
	}
	if counting.calls != 1 {
		t.Errorf("underlying provider called %d times, want 1", counting.calls)
	}

	var firstErr error
	if _, firstErr = c.RecordLayout(other); firstErr == nil {
		t.Fatal("expected error for unregistered record")
	}
	if _, err := c.RecordLayout(other); !errors.Is(err, firstErr) && err.Error() != firstErr.Error() {
		t.Errorf("cached error mismatch: %v vs %v", err, firstErr)
	}
	if counting.calls != 2 {
		t.Errorf("underlying provider called %d times, want 2 (errors cached too)", counting.calls)
	}
}

func TestVTableEntryKindIsFunction(t *testing.T) {
	fn := []VTableEntryKind{VTableFunctionPointer, VTableCompleteDestructor, VTableDeletingDestructor, VTableUnusedFunctionPointer}
	for _, k := range fn {
		if !k.IsFunction() {
			t.Errorf("%s must report IsFunction", k)
		}
	}
	for _, k := range []VTableEntryKind{VTableVCallOffset, VTableVBaseOffset, VTableOffsetToTop, VTableRTTI} {
		if k.IsFunction() {
			t.Errorf("%s must not report IsFunction", k)
		}
	}
}
