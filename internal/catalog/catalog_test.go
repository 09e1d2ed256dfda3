package catalog

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFlattenLengthAndOrder(t *testing.T) {
	lessons := Builtin()
	idx := Flatten(lessons)

	total := 0
	for _, l := range lessons {
		total += len(l.Exercises)
	}
	if idx.Len() != total {
		t.Fatalf("expected %d entries, got %d", total, idx.Len())
	}

	pos := 0
	for _, l := range lessons {
		for _, ex := range l.Exercises {
			e, ok := idx.At(pos)
			if !ok {
				t.Fatalf("missing entry at %d", pos)
			}
			if e.LessonID != l.ID || e.Position != pos || e.Exercise.Answer() != ex.Answer() {
				t.Fatalf("unexpected entry at %d: %+v", pos, e)
			}
			pos++
		}
	}
}

func TestFlattenIsStable(t *testing.T) {
	lessons := Builtin()
	a := Flatten(lessons)
	b := Flatten(lessons)
	if !reflect.DeepEqual(a.Entries(), b.Entries()) {
		t.Fatalf("expected identical sequences for unchanged input")
	}
}

func TestFlattenToleratesMissingExercises(t *testing.T) {
	idx := Flatten([]Lesson{
		{ID: "empty"},
		{ID: "one", Exercises: []Exercise{Character{Glyph: "日"}}},
	})
	if idx.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", idx.Len())
	}
	if start, ok := idx.LessonStart("empty"); !ok || start != 0 {
		t.Fatalf("expected empty lesson to start at 0, got %d %v", start, ok)
	}
	if idx.LessonAt(0) != "one" {
		t.Fatalf("expected lesson one at 0, got %q", idx.LessonAt(0))
	}
	if idx.LessonAt(5) != "" {
		t.Fatalf("expected no lesson past the end")
	}
}

func TestLessonProgress(t *testing.T) {
	idx := Flatten([]Lesson{
		{ID: "a", Exercises: []Exercise{Character{Glyph: "日"}, Character{Glyph: "月"}}},
		{ID: "b", Exercises: []Exercise{Character{Glyph: "金"}}},
	})
	offset, size := idx.LessonProgress(1)
	if offset != 2 || size != 2 {
		t.Fatalf("expected 2/2, got %d/%d", offset, size)
	}
	offset, size = idx.LessonProgress(2)
	if offset != 1 || size != 1 {
		t.Fatalf("expected 1/1, got %d/%d", offset, size)
	}
}

func TestFirstUnknown(t *testing.T) {
	idx := Flatten([]Lesson{
		{ID: "a", Exercises: []Exercise{Character{Glyph: "好"}, Sentence{Text: "好學"}}},
	})
	known := map[string]bool{}
	isKnown := func(u string) bool { return known[u] }

	if got := idx.FirstUnknown(isKnown); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	known["好"] = true
	if got := idx.FirstUnknown(isKnown); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	known["學"] = true
	if got := idx.FirstUnknown(isKnown); got != idx.Len() {
		t.Fatalf("expected %d, got %d", idx.Len(), got)
	}
}

func TestSentenceUnits(t *testing.T) {
	s := Sentence{Text: "好 好學"}
	if got := s.Units(); !reflect.DeepEqual(got, []string{"好", "學"}) {
		t.Fatalf("unexpected units: %v", got)
	}
	if s.Answer() != "好 好學" {
		t.Fatalf("unexpected answer: %q", s.Answer())
	}
}

func TestDecodeBothShapes(t *testing.T) {
	doc := `{"lessons": [
		{"id": "legacy", "title": "Legacy", "characters": [
			{"char": "日", "meaning": "sun", "code": "A"}
		]},
		{"id": "modern", "title": "Modern", "exercises": [
			{"type": "character", "data": {"char": "月", "meaning": "moon", "meaningAlt": "月亮", "code": "B"}},
			{"type": "sentence", "data": {"text": "日月", "meaning": "sun moon"}},
			{"type": "picture", "data": {}}
		]},
		{"id": "bare", "title": "Bare"}
	]}`
	lessons, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lessons) != 3 {
		t.Fatalf("expected 3 lessons, got %d", len(lessons))
	}
	if c, ok := lessons[0].Exercises[0].(Character); !ok || c.Code != "A" {
		t.Fatalf("expected legacy character, got %#v", lessons[0].Exercises[0])
	}
	if len(lessons[1].Exercises) != 2 {
		t.Fatalf("expected unknown variant to be dropped, got %d", len(lessons[1].Exercises))
	}
	if c := lessons[1].Exercises[0].(Character); c.MeaningAlt != "月亮" {
		t.Fatalf("unexpected alt meaning %q", c.MeaningAlt)
	}
	if s, ok := lessons[1].Exercises[1].(Sentence); !ok || s.Text != "日月" {
		t.Fatalf("expected sentence, got %#v", lessons[1].Exercises[1])
	}
	if len(lessons[2].Exercises) != 0 {
		t.Fatalf("expected empty lesson")
	}
}

func TestLessonJSONRoundTrip(t *testing.T) {
	in := Builtin()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out []Lesson
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch")
	}
}

func TestFind(t *testing.T) {
	if _, err := Find(Builtin(), "phrase"); err != nil {
		t.Fatalf("expected phrase lesson: %v", err)
	}
	if _, err := Find(Builtin(), "nope"); !errors.Is(err, ErrUnknownLesson) {
		t.Fatalf("expected ErrUnknownLesson, got %v", err)
	}
}

func TestDecompose(t *testing.T) {
	parts := Decompose("ab?")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].Glyph != "日" || parts[1].Name != "moon" {
		t.Fatalf("unexpected decomposition: %+v", parts)
	}
	if parts[2].Glyph != "?" || parts[2].Name != "Unknown component" {
		t.Fatalf("expected unknown component, got %+v", parts[2])
	}
	if Decompose("  ") != nil {
		t.Fatalf("expected nil for empty code")
	}
}

func TestDecodeSkipsMalformedExercise(t *testing.T) {
	doc := `{"lessons": [
		{"id": "a", "title": "A", "exercises": [
			{"type": "character", "data": {"char": "日", "meaning": "sun", "code": "A"}},
			{"type": "character", "data": "oops"},
			{"type": "sentence", "data": {"text": "日月", "meaning": "sun moon"}}
		]},
		{"id": "b", "title": "B", "exercises": [
			{"type": "character", "data": {"char": "月", "meaning": "moon", "code": "B"}}
		]}
	]}`
	core, logs := observer.New(zapcore.WarnLevel)
	lessons, err := Decode([]byte(doc), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(lessons))
	}
	if len(lessons[0].Exercises) != 2 {
		t.Fatalf("expected the malformed exercise to be skipped, got %d", len(lessons[0].Exercises))
	}
	if _, ok := lessons[0].Exercises[1].(Sentence); !ok {
		t.Fatalf("expected sentence after skipped item, got %#v", lessons[0].Exercises[1])
	}
	if logs.FilterMessage("skipping malformed exercise").Len() != 1 {
		t.Fatalf("expected one warning, got %d entries", logs.Len())
	}
}

func TestSentenceUnitsSkipFullWidthSpace(t *testing.T) {
	s := Sentence{Text: "日\u3000月 日"}
	if got := s.Units(); !reflect.DeepEqual(got, []string{"日", "月"}) {
		t.Fatalf("unexpected units: %v", got)
	}
}
