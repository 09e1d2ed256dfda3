package stats

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTrackerCountsAndResets(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := NewTracker(clock.now)

	if tr.Accuracy() != 0 || tr.Speed(clock.t) != 0 {
		t.Fatalf("expected zero metrics before any attempt")
	}
	start := clock.t
	tr.RecordAttempt(true)
	clock.t = clock.t.Add(30 * time.Second)
	tr.RecordAttempt(false)
	s := tr.RecordAttempt(true)

	if s.Correct != 2 || s.Incorrect != 1 || s.Attempts() != 3 {
		t.Fatalf("unexpected counters %+v", s)
	}
	if !s.StartedAt.Equal(start) {
		t.Fatalf("clock must start on the first attempt, got %v", s.StartedAt)
	}
	if math.Abs(tr.Accuracy()-2.0/3.0) > 1e-9 {
		t.Fatalf("unexpected accuracy %f", tr.Accuracy())
	}
	if got := tr.Speed(start.Add(time.Minute)); got != 2 {
		t.Fatalf("expected 2 per minute, got %f", got)
	}

	tr.Reset()
	if s := tr.Snapshot(); s.Attempts() != 0 || !s.StartedAt.IsZero() {
		t.Fatalf("expected cleared tracker, got %+v", s)
	}
}

func TestTrackerSpeedFloor(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	tr := NewTracker(clock.now)
	tr.RecordAttempt(true)

	// 1 correct in under a second is measured over one second.
	if got := tr.Speed(clock.t.Add(200 * time.Millisecond)); got != 60 {
		t.Fatalf("expected 60 per minute, got %f", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(2.0/3.0, 3); got != 0.667 {
		t.Fatalf("expected 0.667, got %v", got)
	}
	if got := Round(12.345678, 2); got != 12.35 {
		t.Fatalf("expected 12.35, got %v", got)
	}
	if got := Round(math.NaN(), 2); got != 0 {
		t.Fatalf("expected NaN to round to 0, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6}, 2)
	want := []float64{2, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
