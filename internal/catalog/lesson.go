package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownLesson is returned when a lesson id is not in the catalog.
var ErrUnknownLesson = errors.New("unknown lesson")

// Lesson is an ordered group of exercises.
type Lesson struct {
	ID             string
	Title          string
	TitleAlt       string
	Description    string
	DescriptionAlt string
	Exercises      []Exercise

	skipped []error
}

type lessonJSON struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	TitleAlt       string         `json:"titleAlt,omitempty"`
	Description    string         `json:"description"`
	DescriptionAlt string         `json:"descriptionAlt,omitempty"`
	Exercises      []exerciseJSON `json:"exercises"`
	Characters     []Character    `json:"characters,omitempty"`
}

type exerciseJSON struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UnmarshalJSON accepts both the exercises shape and the legacy bare characters list.
// Exercises whose data does not decode are skipped and reported by Decode.
func (l *Lesson) UnmarshalJSON(b []byte) error {
	var raw lessonJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = Lesson{
		ID:             raw.ID,
		Title:          raw.Title,
		TitleAlt:       raw.TitleAlt,
		Description:    raw.Description,
		DescriptionAlt: raw.DescriptionAlt,
	}
	if raw.Exercises == nil {
		for _, c := range raw.Characters {
			l.Exercises = append(l.Exercises, c)
		}
		return nil
	}
	for i, item := range raw.Exercises {
		ex, err := decodeExercise(item)
		if err != nil {
			l.skipped = append(l.skipped, fmt.Errorf("lesson %q exercise %d: %w", raw.ID, i, err))
			continue
		}
		if ex != nil {
			l.Exercises = append(l.Exercises, ex)
		}
	}
	return nil
}

func decodeExercise(item exerciseJSON) (Exercise, error) {
	switch item.Type {
	case KindCharacter:
		var c Character
		if err := json.Unmarshal(item.Data, &c); err != nil {
			return nil, err
		}
		return c, nil
	case KindSentence:
		var s Sentence
		if err := json.Unmarshal(item.Data, &s); err != nil {
			return nil, err
		}
		return s, nil
	default:
		// Unknown variants are dropped rather than failing the whole catalog.
		return nil, nil
	}
}

// MarshalJSON always writes the exercises shape.
func (l Lesson) MarshalJSON() ([]byte, error) {
	out := lessonJSON{
		ID:             l.ID,
		Title:          l.Title,
		TitleAlt:       l.TitleAlt,
		Description:    l.Description,
		DescriptionAlt: l.DescriptionAlt,
		Exercises:      make([]exerciseJSON, 0, len(l.Exercises)),
	}
	for _, ex := range l.Exercises {
		data, err := json.Marshal(ex)
		if err != nil {
			return nil, err
		}
		out.Exercises = append(out.Exercises, exerciseJSON{Type: ex.Kind(), Data: data})
	}
	return json.Marshal(out)
}

// Find returns the lesson with the given id.
func Find(lessons []Lesson, id string) (Lesson, error) {
	for _, l := range lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return Lesson{}, fmt.Errorf("%w: %s", ErrUnknownLesson, id)
}
