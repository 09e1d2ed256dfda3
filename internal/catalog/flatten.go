package catalog

// Entry is one position in the flattened sequence.
type Entry struct {
	Position int
	LessonID string
	Exercise Exercise
}

type lessonSpan struct {
	start int
	end   int
}

// FlatIndex maps global positions to exercises. It is read-only once built.
type FlatIndex struct {
	entries []Entry
	spans   map[string]lessonSpan
	order   []string
}

// Flatten lays out lessons in order, exercises in lesson order.
func Flatten(lessons []Lesson) FlatIndex {
	total := 0
	for _, l := range lessons {
		total += len(l.Exercises)
	}
	idx := FlatIndex{
		entries: make([]Entry, 0, total),
		spans:   make(map[string]lessonSpan, len(lessons)),
		order:   make([]string, 0, len(lessons)),
	}
	for _, l := range lessons {
		start := len(idx.entries)
		for _, ex := range l.Exercises {
			if ex == nil {
				continue
			}
			idx.entries = append(idx.entries, Entry{
				Position: len(idx.entries),
				LessonID: l.ID,
				Exercise: ex,
			})
		}
		if _, dup := idx.spans[l.ID]; !dup {
			idx.spans[l.ID] = lessonSpan{start: start, end: len(idx.entries)}
			idx.order = append(idx.order, l.ID)
		}
	}
	return idx
}

// Len returns the number of exercises.
func (f FlatIndex) Len() int {
	return len(f.entries)
}

// At returns the entry at pos.
func (f FlatIndex) At(pos int) (Entry, bool) {
	if pos < 0 || pos >= len(f.entries) {
		return Entry{}, false
	}
	return f.entries[pos], true
}

// LessonAt returns the owning lesson id at pos, or "" when out of range.
func (f FlatIndex) LessonAt(pos int) string {
	e, ok := f.At(pos)
	if !ok {
		return ""
	}
	return e.LessonID
}

// LessonStart returns the first position of a lesson.
func (f FlatIndex) LessonStart(id string) (int, bool) {
	span, ok := f.spans[id]
	if !ok {
		return 0, false
	}
	return span.start, true
}

// LessonProgress reports the 1-based offset of pos within its lesson and the lesson length.
func (f FlatIndex) LessonProgress(pos int) (offset, size int) {
	e, ok := f.At(pos)
	if !ok {
		return 0, 0
	}
	span := f.spans[e.LessonID]
	return pos - span.start + 1, span.end - span.start
}

// LessonIDs returns lesson ids in catalog order.
func (f FlatIndex) LessonIDs() []string {
	return append([]string(nil), f.order...)
}

// Entries returns a copy of the sequence.
func (f FlatIndex) Entries() []Entry {
	return append([]Entry(nil), f.entries...)
}

// FirstUnknown returns the first position with a unit not accepted by known,
// or Len() when every unit is known.
func (f FlatIndex) FirstUnknown(known func(unit string) bool) int {
	for _, e := range f.entries {
		for _, u := range e.Exercise.Units() {
			if !known(u) {
				return e.Position
			}
		}
	}
	return len(f.entries)
}
