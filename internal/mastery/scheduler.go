package mastery

import (
	"sort"
	"time"
)

// Scheduler tracks mastery records and the known-unit set of one profile.
type Scheduler struct {
	records map[string]Record
	known   map[string]struct{}
}

// NewScheduler copies the given state; the caller's maps are never mutated.
func NewScheduler(records map[string]Record, known []string) *Scheduler {
	s := &Scheduler{
		records: make(map[string]Record, len(records)),
		known:   make(map[string]struct{}, len(known)),
	}
	for unit, r := range records {
		s.records[unit] = r
	}
	for _, unit := range known {
		s.known[unit] = struct{}{}
	}
	return s
}

// RecordSuccess raises the unit one level, reschedules it and marks it known.
func (s *Scheduler) RecordSuccess(unit string, now time.Time) Record {
	r, ok := s.records[unit]
	if !ok {
		r = Record{Level: 0, FirstLearnedAt: now}
	}
	if r.Level < MaxLevel {
		r.Level++
	}
	if r.Level > MaxLevel {
		r.Level = MaxLevel
	}
	r.LastPracticedAt = now
	r.NextReviewAt = now.Add(IntervalFor(r.Level))
	s.records[unit] = r
	s.known[unit] = struct{}{}
	return r
}

// Reveal drops a learned unit back to level 0 and makes it due at now.
// It reports whether anything changed.
func (s *Scheduler) Reveal(unit string, now time.Time) bool {
	r, ok := s.records[unit]
	if !ok || r.Level == 0 {
		return false
	}
	r.Level = 0
	r.NextReviewAt = now
	s.records[unit] = r
	return true
}

// DueCount counts units whose review time has arrived.
func (s *Scheduler) DueCount(now time.Time) int {
	n := 0
	for _, r := range s.records {
		if r.IsDue(now) {
			n++
		}
	}
	return n
}

// LearnedTodayCount counts units first learned on now's calendar day, in now's location.
func (s *Scheduler) LearnedTodayCount(now time.Time) int {
	n := 0
	for _, r := range s.records {
		if sameDay(r.FirstLearnedAt, now) {
			n++
		}
	}
	return n
}

// DueUnits returns due units, most overdue first.
func (s *Scheduler) DueUnits(now time.Time, limit int) []string {
	type due struct {
		unit    string
		overdue time.Duration
	}
	var items []due
	for unit, r := range s.records {
		if r.IsDue(now) {
			items = append(items, due{unit: unit, overdue: r.Overdue(now)})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].overdue != items[j].overdue {
			return items[i].overdue > items[j].overdue
		}
		return items[i].unit < items[j].unit
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.unit
	}
	return out
}

// Get returns the record for a unit.
func (s *Scheduler) Get(unit string) (Record, bool) {
	r, ok := s.records[unit]
	return r, ok
}

// Known reports whether the unit is in the known set.
func (s *Scheduler) Known(unit string) bool {
	_, ok := s.known[unit]
	return ok
}

// Records exports a copy of all records.
func (s *Scheduler) Records() map[string]Record {
	out := make(map[string]Record, len(s.records))
	for unit, r := range s.records {
		out[unit] = r
	}
	return out
}

// KnownUnits exports the known set, sorted.
func (s *Scheduler) KnownUnits() []string {
	out := make([]string, 0, len(s.known))
	for unit := range s.known {
		out = append(out, unit)
	}
	sort.Strings(out)
	return out
}
