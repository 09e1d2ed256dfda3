package stats

import (
	"testing"

	"github.com/verte-zerg/cangtype/internal/progress"
)

func TestTopLessons(t *testing.T) {
	rows := []LessonRow{
		{ID: "b", Completion: progress.LessonCompletion{Count: 3}},
		{ID: "a", Completion: progress.LessonCompletion{Count: 3}},
		{ID: "c", Completion: progress.LessonCompletion{Count: 1}},
	}
	top := TopLessons(rows, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(top))
	}
	if top[0].ID != "a" || top[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if rows[0].ID != "b" {
		t.Fatalf("input must not be reordered")
	}
	if TopLessons(rows, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}
