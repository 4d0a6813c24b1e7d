package diag

import (
	"math"
	"testing"

	"graft/internal/source"
)

func TestBagLimits(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewWarning(RedArrayParamDecay, source.None(), "one")) {
		t.Fatal("first Add must succeed")
	}
	if !b.Add(NewWarning(RedArrayParamDecay, source.None(), "two")) {
		t.Fatal("second Add must succeed")
	}
	if b.Add(NewWarning(RedArrayParamDecay, source.None(), "three")) {
		t.Fatal("Add past the limit must be rejected")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestBagSeverityFlags(t *testing.T) {
	b := NewBag(10)
	b.Add(NewIgnored(TrUnsupportedDecl, source.None(), "skip"))
	if b.HasWarnings() || b.HasErrors() {
		t.Error("ignored diagnostics must not set any flag")
	}
	b.Add(NewWarning(RedReferenceDegraded, source.None(), "ref"))
	if !b.HasWarnings() || b.HasErrors() {
		t.Error("warning must set HasWarnings only")
	}
	b.Add(NewError(TrDuplicateDecl, source.None(), "dup"))
	if !b.HasErrors() || b.HasFatal() {
		t.Error("error must set HasErrors but not HasFatal")
	}
	b.Add(NewFatal(TrFrontEndFailure, source.None(), "parse"))
	if !b.HasFatal() {
		t.Error("fatal must set HasFatal")
	}
}

func TestBagMergeKeepsOrder(t *testing.T) {
	a := NewBag(1)
	a.Add(NewWarning(SymAmbiguous, source.None(), "first"))
	b := NewBag(2)
	b.Add(NewError(SymUnknown, source.None(), "second"))
	b.Add(NewWarning(SymKindMismatch, source.None(), "third"))

	a.Merge(b)
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (Merge must grow the limit)", a.Len())
	}
	got := a.Items()
	if got[0].Message != "first" || got[1].Message != "second" || got[2].Message != "third" {
		t.Errorf("Merge must preserve append order, got %v", got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewWarning(SymOrdinalBinding, source.Span{File: 1, Start: 3, End: 9}, "ordinal")
	r.Report(d)
	r.Report(d)
	r.Report(NewWarning(SymOrdinalBinding, source.Span{File: 1, Start: 3, End: 9}, "different text"))
	if bag.Len() != 2 {
		t.Fatalf("Len = %d, want 2", bag.Len())
	}
}

func TestNewBagClampsLimit(t *testing.T) {
	huge := NewBag(1 << 20)
	if huge.Cap() != math.MaxUint16 {
		t.Fatalf("Cap = %d, want %d", huge.Cap(), math.MaxUint16)
	}
	if !huge.Add(NewWarning(TrLooseGroupReuse, source.None(), "kept")) {
		t.Error("a clamped bag must still accept diagnostics")
	}

	negative := NewBag(-1)
	if negative.Cap() != 0 {
		t.Fatalf("Cap = %d, want 0", negative.Cap())
	}
	if negative.Add(NewWarning(TrLooseGroupReuse, source.None(), "dropped")) {
		t.Error("a zero-capacity bag must reject diagnostics")
	}
}
