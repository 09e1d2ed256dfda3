package drill

import (
	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/stats"
)

// State is what a front end needs to render the drill.
type State struct {
	ProfileID   string     `json:"profileId"`
	ProfileName string     `json:"profileName"`
	Mode        AnswerMode `json:"mode"`

	Position int  `json:"position"`
	Total    int  `json:"total"`
	Finished bool `json:"finished"`

	LessonID     string       `json:"lessonId,omitempty"`
	LessonTitle  string       `json:"lessonTitle,omitempty"`
	LessonOffset int          `json:"lessonOffset,omitempty"`
	LessonSize   int          `json:"lessonSize,omitempty"`
	Kind         catalog.Kind `json:"kind,omitempty"`
	Prompt       string       `json:"prompt,omitempty"`
	Gloss        string       `json:"gloss,omitempty"`
	GlossAlt     string       `json:"glossAlt,omitempty"`
	Code         string       `json:"code,omitempty"`

	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"`
	Speed     float64 `json:"speed"`

	Streak        int `json:"streak"`
	LongestStreak int `json:"longestStreak"`
	Known         int `json:"known"`
	Due           int `json:"due"`
	LearnedToday  int `json:"learnedToday"`

	Exercise catalog.Exercise `json:"-"`
}

func (e *Evaluator) stateLocked() State {
	now := e.now()
	profile := e.store.Active()
	prog := profile.Progress
	sched := prog.Scheduler()
	session := e.session.Snapshot()

	st := State{
		ProfileID:     profile.ID,
		ProfileName:   profile.Name,
		Mode:          e.mode,
		Position:      prog.Cursor,
		Total:         e.index.Len(),
		Correct:       session.Correct,
		Incorrect:     session.Incorrect,
		Accuracy:      stats.Round(e.session.Accuracy(), 3),
		Speed:         stats.Round(e.session.Speed(now), 2),
		Streak:        prog.Summary.Streak,
		LongestStreak: prog.Summary.LongestStreak,
		Known:         len(prog.KnownUnits),
		Due:           sched.DueCount(now),
		LearnedToday:  sched.LearnedTodayCount(now),
	}

	entry, ok := e.index.At(prog.Cursor)
	if !ok {
		st.Finished = true
		return st
	}
	st.LessonID = entry.LessonID
	st.LessonTitle = e.lessonTitle(entry.LessonID)
	st.LessonOffset, st.LessonSize = e.index.LessonProgress(prog.Cursor)
	st.Kind = entry.Exercise.Kind()
	st.Prompt = entry.Exercise.Answer()
	st.Gloss = entry.Exercise.Gloss()
	st.Code = catalog.CodeFor(entry.Exercise)
	if c, ok := entry.Exercise.(catalog.Character); ok {
		st.GlossAlt = c.MeaningAlt
	}
	st.Exercise = entry.Exercise
	return st
}
