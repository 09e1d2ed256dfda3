package progress

import (
	"time"

	"github.com/verte-zerg/cangtype/internal/mastery"
)

// Clone returns a deep copy; mutations on the copy never reach c.
func (c Collection) Clone() Collection {
	out := Collection{
		Profiles:        make([]Profile, len(c.Profiles)),
		ActiveProfileID: c.ActiveProfileID,
	}
	for i, p := range c.Profiles {
		out.Profiles[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	p.Progress = p.Progress.Clone()
	return p
}

// Clone returns a deep copy of the progress.
func (p Progress) Clone() Progress {
	out := Progress{
		Cursor:     p.Cursor,
		KnownUnits: append([]string{}, p.KnownUnits...),
		Mastery:    make(map[string]mastery.Record, len(p.Mastery)),
		Attempts:   append([]AttemptRecord{}, p.Attempts...),
		Summary: Summary{
			TotalSessions:     p.Summary.TotalSessions,
			Streak:            p.Summary.Streak,
			LongestStreak:     p.Summary.LongestStreak,
			LessonCompletions: make(map[string]LessonCompletion, len(p.Summary.LessonCompletions)),
		},
	}
	for k, v := range p.Mastery {
		out.Mastery[k] = v
	}
	for k, v := range p.Summary.LessonCompletions {
		out.Summary.LessonCompletions[k] = v
	}
	for i, a := range out.Attempts {
		if a.Attempts != nil {
			n := *a.Attempts
			out.Attempts[i].Attempts = &n
		}
	}
	return out
}

// Find returns the profile with the given id.
func (c Collection) Find(id string) (Profile, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Profile{}, false
	}
	return c.Profiles[i], true
}

// Active returns the active profile.
func (c Collection) Active() (Profile, bool) {
	return c.Find(c.ActiveProfileID)
}

func (c Collection) indexOf(id string) int {
	for i, p := range c.Profiles {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// normalize repairs a decoded collection so every invariant holds.
func (c *Collection) normalize(newID func() string) {
	if len(c.Profiles) == 0 {
		c.Profiles = []Profile{{ID: newID(), Name: DefaultProfileName, Progress: NewProgress()}}
	}
	for i := range c.Profiles {
		p := &c.Profiles[i]
		if p.ID == "" {
			p.ID = newID()
		}
		if p.Name == "" {
			p.Name = DefaultProfileName
		}
		p.Progress.normalize()
	}
	if c.indexOf(c.ActiveProfileID) < 0 {
		c.ActiveProfileID = c.Profiles[0].ID
	}
}

func (p *Progress) normalize() {
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	if p.KnownUnits == nil {
		p.KnownUnits = []string{}
	}
	if p.Mastery == nil {
		p.Mastery = map[string]mastery.Record{}
	}
	if p.Attempts == nil {
		p.Attempts = []AttemptRecord{}
	}
	if len(p.Attempts) > MaxAttempts {
		p.Attempts = p.Attempts[:MaxAttempts]
	}
	if p.Summary.LessonCompletions == nil {
		p.Summary.LessonCompletions = map[string]LessonCompletion{}
	}
	if p.Summary.LongestStreak < p.Summary.Streak {
		p.Summary.LongestStreak = p.Summary.Streak
	}
}

func (p *Progress) recordAttempt(rec AttemptRecord) {
	p.Attempts = append([]AttemptRecord{rec}, p.Attempts...)
	if len(p.Attempts) > MaxAttempts {
		p.Attempts = p.Attempts[:MaxAttempts]
	}
	p.Summary.TotalSessions++

	lc := p.Summary.LessonCompletions[rec.LessonID]
	lc.Count++
	if rec.Accuracy > lc.BestAccuracy {
		lc.BestAccuracy = rec.Accuracy
	}
	if rec.Speed > lc.BestSpeed {
		lc.BestSpeed = rec.Speed
	}
	p.Summary.LessonCompletions[rec.LessonID] = lc

	if rec.Accuracy >= PassingAccuracy {
		p.Summary.Streak++
		if p.Summary.Streak > p.Summary.LongestStreak {
			p.Summary.LongestStreak = p.Summary.Streak
		}
	} else {
		p.Summary.Streak = 0
	}
}

func (p *Progress) learn(units []string, now time.Time) {
	sched := p.Scheduler()
	for _, u := range units {
		sched.RecordSuccess(u, now)
	}
	p.Mastery = sched.Records()
	p.KnownUnits = sched.KnownUnits()
}

func (p *Progress) reveal(unit string, now time.Time) bool {
	sched := p.Scheduler()
	if !sched.Reveal(unit, now) {
		return false
	}
	p.Mastery = sched.Records()
	return true
}
