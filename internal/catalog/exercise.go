// Package catalog holds lesson definitions and the flattened exercise sequence.
package catalog

import (
	"strings"
	"unicode"
)

// Kind names an exercise variant.
type Kind string

const (
	// KindCharacter is a single glyph drill.
	KindCharacter Kind = "character"
	// KindSentence is a full text drill.
	KindSentence Kind = "sentence"
)

// Exercise is one drill item. It is implemented only by Character and Sentence.
type Exercise interface {
	// Kind reports the variant.
	Kind() Kind
	// Answer returns the canonical literal answer.
	Answer() string
	// Units returns the characters tracked by the mastery scheduler, deduplicated in order.
	Units() []string
	// Gloss returns the primary meaning shown next to the prompt.
	Gloss() string

	isExercise()
}

// Character drills one glyph and its Cangjie code.
type Character struct {
	Glyph      string `json:"char"`
	Meaning    string `json:"meaning"`
	MeaningAlt string `json:"meaningAlt,omitempty"`
	Code       string `json:"code"`
}

// Kind implements Exercise.
func (Character) Kind() Kind { return KindCharacter }

// Answer implements Exercise.
func (c Character) Answer() string { return c.Glyph }

// Units implements Exercise.
func (c Character) Units() []string {
	if c.Glyph == "" {
		return nil
	}
	return []string{c.Glyph}
}

// Gloss implements Exercise.
func (c Character) Gloss() string { return c.Meaning }

func (Character) isExercise() {}

// Sentence drills a full line of text.
type Sentence struct {
	Text    string `json:"text"`
	Meaning string `json:"meaning"`
}

// Kind implements Exercise.
func (Sentence) Kind() Kind { return KindSentence }

// Answer implements Exercise.
func (s Sentence) Answer() string { return s.Text }

// Units implements Exercise. Whitespace is skipped.
func (s Sentence) Units() []string {
	seen := map[rune]struct{}{}
	var units []string
	for _, r := range s.Text {
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		units = append(units, string(r))
	}
	return units
}

// Gloss implements Exercise.
func (s Sentence) Gloss() string { return s.Meaning }

func (Sentence) isExercise() {}

// CodeFor returns the Cangjie code of a character exercise, or "" for anything else.
func CodeFor(ex Exercise) string {
	if c, ok := ex.(Character); ok {
		return strings.ToUpper(c.Code)
	}
	return ""
}
