package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("index")
	time.Sleep(2 * time.Millisecond)
	tm.End(idx, "42 files")
	tm.Measure("convert", func() string { return "" })

	d, ok := tm.Duration("index")
	if !ok || d < 2*time.Millisecond {
		t.Fatalf("index duration = %v, %v", d, ok)
	}
	if _, ok := tm.Duration("missing"); ok {
		t.Fatalf("unexpected phase")
	}

	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[0].Note != "42 files" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.WallMS < rep.Phases[0].DurationMS {
		t.Fatalf("wall %.2f shorter than a phase %.2f", rep.WallMS, rep.Phases[0].DurationMS)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "index") || !strings.Contains(sum, "// 42 files") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if rep := tm.Report(); len(rep.Phases) != 0 {
		t.Fatalf("expected empty report")
	}
}
