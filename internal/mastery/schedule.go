// Package mastery schedules character reviews on a fixed interval ladder.
package mastery

import "time"

// Intervals is the review delay per level. Level 0 is due immediately.
var Intervals = []time.Duration{
	0,
	4 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

// MaxLevel is the highest reachable level.
const MaxLevel = 5

// IntervalFor returns the delay for a level, clamped to the table.
func IntervalFor(level int) time.Duration {
	if level <= 0 {
		return Intervals[0]
	}
	if level >= len(Intervals) {
		return Intervals[len(Intervals)-1]
	}
	return Intervals[level]
}

// Record is the review state of one unit.
type Record struct {
	Level           int       `json:"level"`
	FirstLearnedAt  time.Time `json:"firstLearnedAt"`
	LastPracticedAt time.Time `json:"lastPracticedAt"`
	NextReviewAt    time.Time `json:"nextReviewAt"`
}

// IsDue reports whether the unit should be reviewed at now.
func (r Record) IsDue(now time.Time) bool {
	return !now.Before(r.NextReviewAt)
}

// Overdue returns how long past due the unit is, or 0.
func (r Record) Overdue(now time.Time) time.Duration {
	if now.Before(r.NextReviewAt) {
		return 0
	}
	return now.Sub(r.NextReviewAt)
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
