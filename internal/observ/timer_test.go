package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("translate")
	time.Sleep(time.Millisecond)
	tm.End(a, "2 files")
	b := tm.Begin("resolve")
	tm.End(b, "")
	tm.End(99, "ignored") // never handed out

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(rep.Phases))
	}
	if rep.Phases[0].Name != "translate" || rep.Phases[0].Note != "2 files" {
		t.Errorf("phase 0 = %+v", rep.Phases[0])
	}
	if rep.Phases[0].DurationMS <= 0 {
		t.Errorf("translate duration = %v, want > 0", rep.Phases[0].DurationMS)
	}
	if rep.TotalMS < rep.Phases[0].DurationMS {
		t.Errorf("total %v is less than a single phase %v", rep.TotalMS, rep.Phases[0].DurationMS)
	}

	sum := tm.Summary()
	if !strings.Contains(sum, "translate") || !strings.Contains(sum, "total") {
		t.Errorf("summary = %q", sum)
	}
	if !strings.Contains(sum, "// 2 files") {
		t.Errorf("summary must carry the note, got %q", sum)
	}
}

func TestEmptyTimerReportsNothing(t *testing.T) {
	rep := NewTimer().Report()
	if len(rep.Phases) != 0 || rep.TotalMS != 0 {
		t.Fatalf("report = %+v", rep)
	}
}
