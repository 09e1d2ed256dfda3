package stats

import (
	"time"

	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/progress"
)

// LessonRow is one catalog lesson joined with its completion summary.
type LessonRow struct {
	ID         string
	Title      string
	Exercises  int
	Completion progress.LessonCompletion
}

// Report contains precomputed data for stats rendering.
type Report struct {
	ProfileName  string
	Summary      progress.Summary
	Attempts     []progress.AttemptRecord
	Lessons      []LessonRow
	Known        int
	Due          int
	DueUnits     []string
	LearnedToday int
}

// dueListLimit caps the review preview in reports.
const dueListLimit = 10

// BuildReport prepares a profile's data for rendering.
func BuildReport(p progress.Profile, lessons []catalog.Lesson, now time.Time) Report {
	sched := p.Progress.Scheduler()
	rows := make([]LessonRow, 0, len(lessons))
	for _, l := range lessons {
		title := l.Title
		if title == "" {
			title = l.ID
		}
		rows = append(rows, LessonRow{
			ID:         l.ID,
			Title:      title,
			Exercises:  len(l.Exercises),
			Completion: p.Progress.Summary.LessonCompletions[l.ID],
		})
	}
	return Report{
		ProfileName:  p.Name,
		Summary:      p.Progress.Summary,
		Attempts:     p.Progress.Attempts,
		Lessons:      rows,
		Known:        len(p.Progress.KnownUnits),
		Due:          sched.DueCount(now),
		DueUnits:     sched.DueUnits(now, dueListLimit),
		LearnedToday: sched.LearnedTodayCount(now),
	}
}

func (r Report) lessonTitle(id string) string {
	for _, l := range r.Lessons {
		if l.ID == id {
			return l.Title
		}
	}
	return id
}
