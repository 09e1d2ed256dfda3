package stats

import (
	"sync"
	"time"
)

// minElapsed keeps speed finite for sub-second runs.
const minElapsed = time.Second

// SessionStats is a point-in-time view of a Tracker.
type SessionStats struct {
	Correct   int
	Incorrect int
	StartedAt time.Time
}

// Attempts returns the number of recorded submissions.
func (s SessionStats) Attempts() int {
	return s.Correct + s.Incorrect
}

// Tracker counts correct and incorrect submissions since the last reset.
type Tracker struct {
	mu        sync.Mutex
	correct   int
	incorrect int
	startedAt time.Time
	now       func() time.Time
}

// NewTracker returns an empty tracker. A nil clock means time.Now.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now}
}

// Reset zeroes the counters and clears the start time.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.correct = 0
	t.incorrect = 0
	t.startedAt = time.Time{}
}

// RecordAttempt counts one submission. The first one after a reset starts the clock.
func (t *Tracker) RecordAttempt(correct bool) SessionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.correct+t.incorrect == 0 {
		t.startedAt = t.now()
	}
	if correct {
		t.correct++
	} else {
		t.incorrect++
	}
	return t.snapshotLocked()
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() SessionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() SessionStats {
	return SessionStats{Correct: t.correct, Incorrect: t.incorrect, StartedAt: t.startedAt}
}

// Accuracy is correct over all attempts, or 0 before any attempt.
func (t *Tracker) Accuracy() float64 {
	s := t.Snapshot()
	acc, _ := SessionMetrics(s.Correct, s.Incorrect, 0)
	return acc
}

// Speed is correct submissions per minute measured at now.
func (t *Tracker) Speed(now time.Time) float64 {
	s := t.Snapshot()
	if s.StartedAt.IsZero() {
		return 0
	}
	_, speed := SessionMetrics(s.Correct, s.Incorrect, now.Sub(s.StartedAt))
	return speed
}
