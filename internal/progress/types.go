// Package progress keeps per-profile learning progress and persists it as one blob.
package progress

import (
	"time"

	"github.com/verte-zerg/cangtype/internal/mastery"
)

const (
	// MaxAttempts bounds the attempt history, newest first.
	MaxAttempts = 25
	// PassingAccuracy is the lesson accuracy that keeps a streak alive.
	PassingAccuracy = 0.85
	// DefaultProfileName names synthesized and migrated profiles.
	DefaultProfileName = "Default"

	// StorageKey holds the serialized Collection.
	StorageKey = "cangtype.profiles.v2"
	// LegacyStorageKey holds the old single-profile progress blob.
	LegacyStorageKey = "cangtype.progress"
)

// AttemptRecord is one finished lesson run.
type AttemptRecord struct {
	LessonID    string    `json:"lessonId"`
	Accuracy    float64   `json:"accuracy"`
	Speed       float64   `json:"speed"`
	Attempts    *int      `json:"attempts"`
	CompletedAt time.Time `json:"completedAt"`
}

// LessonCompletion aggregates every recorded run of one lesson.
type LessonCompletion struct {
	Count        int     `json:"count"`
	BestAccuracy float64 `json:"bestAccuracy"`
	BestSpeed    float64 `json:"bestSpeed"`
}

// Summary holds the profile-wide counters.
type Summary struct {
	TotalSessions     int                         `json:"totalSessions"`
	Streak            int                         `json:"streak"`
	LongestStreak     int                         `json:"longestStreak"`
	LessonCompletions map[string]LessonCompletion `json:"lessonCompletions"`
}

// Progress is everything a profile has learned so far.
type Progress struct {
	Cursor     int                       `json:"cursor"`
	KnownUnits []string                  `json:"knownUnits"`
	Mastery    map[string]mastery.Record `json:"mastery"`
	Attempts   []AttemptRecord           `json:"attempts"`
	Summary    Summary                   `json:"summary"`
}

// Profile is a named learner.
type Profile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Progress Progress `json:"progress"`
}

// Collection is the persisted root: all profiles and the active one.
type Collection struct {
	Profiles        []Profile `json:"profiles"`
	ActiveProfileID string    `json:"activeProfileId"`
}

// NewProgress returns empty progress with all maps allocated.
func NewProgress() Progress {
	return Progress{
		KnownUnits: []string{},
		Mastery:    map[string]mastery.Record{},
		Attempts:   []AttemptRecord{},
		Summary: Summary{
			LessonCompletions: map[string]LessonCompletion{},
		},
	}
}

// Scheduler builds a mastery scheduler over a copy of this progress.
func (p Progress) Scheduler() *mastery.Scheduler {
	return mastery.NewScheduler(p.Mastery, p.KnownUnits)
}

// IsKnown reports whether a unit has been learned.
func (p Progress) IsKnown(unit string) bool {
	for _, u := range p.KnownUnits {
		if u == unit {
			return true
		}
	}
	return false
}
