// Package drill runs the submit/reveal loop over the flattened exercise sequence.
package drill

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/progress"
	"github.com/verte-zerg/cangtype/internal/stats"
)

// AnswerMode selects what a character exercise is checked against.
type AnswerMode string

const (
	// ModeGlyph compares the input to the literal glyph.
	ModeGlyph AnswerMode = "glyph"
	// ModeCode compares the input to the Cangjie key sequence.
	ModeCode AnswerMode = "code"
)

// ParseAnswerMode validates a configured mode; empty means ModeGlyph.
func ParseAnswerMode(s string) (AnswerMode, error) {
	switch AnswerMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeGlyph:
		return ModeGlyph, nil
	case ModeCode:
		return ModeCode, nil
	default:
		return "", fmt.Errorf("invalid answer mode %q (want glyph or code)", s)
	}
}

// Outcome classifies a submission.
type Outcome string

const (
	OutcomeIgnored         Outcome = "ignored"
	OutcomeCorrect         Outcome = "correct"
	OutcomeLessonCompleted Outcome = "lesson-completed"
	OutcomeIncorrect       Outcome = "incorrect"
	OutcomeFinished        Outcome = "finished"
)

// Feedback is the result of one submission.
type Feedback struct {
	Outcome    Outcome                 `json:"outcome"`
	Message    string                  `json:"message,omitempty"`
	Expected   string                  `json:"expected,omitempty"`
	ClearInput bool                    `json:"clearInput"`
	Attempt    *progress.AttemptRecord `json:"attempt,omitempty"`
	State      State                   `json:"state"`
}

// Evaluator owns the drill state for the active profile. All methods are
// safe for concurrent use; each runs as one step under a single lock.
type Evaluator struct {
	mu      sync.Mutex
	store   *progress.Store
	index   catalog.FlatIndex
	lessons map[string]catalog.Lesson
	mode    AnswerMode
	now     func() time.Time
	log     *zap.Logger

	// session resets on every cursor move; run spans one lesson and feeds its AttemptRecord.
	session   *stats.Tracker
	run       *stats.Tracker
	runLesson string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithAnswerMode sets the character answer mode.
func WithAnswerMode(mode AnswerMode) Option {
	return func(e *Evaluator) {
		if mode != "" {
			e.mode = mode
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Evaluator) {
		if log != nil {
			e.log = log
		}
	}
}

// New builds an evaluator over lessons. Call Start before the first submission.
func New(lessons []catalog.Lesson, store *progress.Store, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:   store,
		index:   catalog.Flatten(lessons),
		lessons: make(map[string]catalog.Lesson, len(lessons)),
		mode:    ModeGlyph,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, l := range lessons {
		e.lessons[l.ID] = l
	}
	for _, opt := range opts {
		opt(e)
	}
	e.session = stats.NewTracker(e.now)
	e.run = stats.NewTracker(e.now)
	return e
}

// Start resumes the active profile at its first unknown exercise.
func (e *Evaluator) Start(ctx context.Context) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resumeLocked(ctx)
	return e.stateLocked()
}

// Mode reports the configured answer mode.
func (e *Evaluator) Mode() AnswerMode {
	return e.mode
}

// Index returns the flattened sequence.
func (e *Evaluator) Index() catalog.FlatIndex {
	return e.index
}

// State returns a view of the current position and counters.
func (e *Evaluator) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Submit checks input against the current exercise.
func (e *Evaluator) Submit(ctx context.Context, input string) Feedback {
	answer := strings.TrimSpace(input)
	e.mu.Lock()
	defer e.mu.Unlock()

	if answer == "" {
		return Feedback{Outcome: OutcomeIgnored, State: e.stateLocked()}
	}

	profile := e.store.Active()
	pos := profile.Progress.Cursor
	entry, ok := e.index.At(pos)
	if !ok {
		return Feedback{Outcome: OutcomeFinished, Message: "All exercises completed.", State: e.stateLocked()}
	}

	if e.runLesson != entry.LessonID {
		e.run.Reset()
		e.runLesson = entry.LessonID
	}
	correct := e.matches(entry.Exercise, answer)
	e.session.RecordAttempt(correct)
	e.run.RecordAttempt(correct)

	if !correct {
		e.store.ResetStreak(ctx, profile.ID)
		expected := e.expected(entry.Exercise)
		return Feedback{
			Outcome:    OutcomeIncorrect,
			Message:    "Expected " + expected,
			Expected:   expected,
			ClearInput: true,
			State:      e.stateLocked(),
		}
	}

	now := e.now()
	e.store.CompleteExercise(ctx, profile.ID, entry.Exercise.Units(), now)
	e.session.Reset()

	next := e.index.LessonAt(pos + 1)
	if next == entry.LessonID {
		return Feedback{Outcome: OutcomeCorrect, Message: "Correct!", ClearInput: true, State: e.stateLocked()}
	}

	rec := e.finishRunLocked(now)
	e.store.RecordAttempt(ctx, profile.ID, rec)
	e.log.Debug("lesson completed",
		zap.String("profile", profile.ID),
		zap.String("lesson", rec.LessonID),
		zap.Float64("accuracy", rec.Accuracy),
		zap.Float64("speed", rec.Speed))

	return Feedback{
		Outcome:    OutcomeLessonCompleted,
		Message:    fmt.Sprintf("Lesson complete: %s", e.lessonTitle(entry.LessonID)),
		ClearInput: true,
		Attempt:    &rec,
		State:      e.stateLocked(),
	}
}

func (e *Evaluator) finishRunLocked(now time.Time) progress.AttemptRecord {
	snap := e.run.Snapshot()
	attempts := snap.Attempts()
	rec := progress.AttemptRecord{
		LessonID:    e.runLesson,
		Accuracy:    stats.Round(e.run.Accuracy(), 3),
		Speed:       stats.Round(e.run.Speed(now), 2),
		Attempts:    &attempts,
		CompletedAt: now,
	}
	e.run.Reset()
	e.runLesson = ""
	return rec
}

// Reveal marks the current character for immediate review. Sentences are unaffected.
func (e *Evaluator) Reveal(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	profile := e.store.Active()
	entry, ok := e.index.At(profile.Progress.Cursor)
	if !ok {
		return false
	}
	c, ok := entry.Exercise.(catalog.Character)
	if !ok {
		return false
	}
	return e.store.Reveal(ctx, profile.ID, c.Glyph, e.now())
}

// Current returns the exercise under the cursor.
func (e *Evaluator) Current() (catalog.Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.At(e.store.Active().Progress.Cursor)
}

// ActivateProfile switches profiles and resumes at the first unknown exercise.
// Unknown ids leave everything unchanged.
func (e *Evaluator) ActivateProfile(ctx context.Context, id string) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.store.SetActive(ctx, id) {
		return e.stateLocked(), false
	}
	e.resumeLocked(ctx)
	return e.stateLocked(), true
}

// CreateProfile adds and activates a profile.
func (e *Evaluator) CreateProfile(ctx context.Context, name string) (progress.Profile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.store.CreateProfile(ctx, name)
	if err != nil {
		return progress.Profile{}, err
	}
	e.resumeLocked(ctx)
	return p, nil
}

// DeleteProfile removes a profile, resuming whichever profile becomes active.
func (e *Evaluator) DeleteProfile(ctx context.Context, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	before := e.store.Active().ID
	e.store.DeleteProfile(ctx, id)
	if e.store.Active().ID != before {
		e.resumeLocked(ctx)
	}
}

// JumpToLesson moves the cursor to the first exercise of a lesson.
func (e *Evaluator) JumpToLesson(ctx context.Context, lessonID string) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, ok := e.index.LessonStart(lessonID)
	if !ok {
		return e.stateLocked(), fmt.Errorf("%w: %s", catalog.ErrUnknownLesson, lessonID)
	}
	e.store.SetCursor(ctx, e.store.Active().ID, start)
	e.resetTrackersLocked()
	return e.stateLocked(), nil
}

// ResetSession clears the session counters and the current lesson run.
func (e *Evaluator) ResetSession() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetTrackersLocked()
	return e.stateLocked()
}

func (e *Evaluator) resumeLocked(ctx context.Context) {
	profile := e.store.Active()
	known := make(map[string]struct{}, len(profile.Progress.KnownUnits))
	for _, u := range profile.Progress.KnownUnits {
		known[u] = struct{}{}
	}
	pos := e.index.FirstUnknown(func(unit string) bool {
		_, ok := known[unit]
		return ok
	})
	e.store.SetCursor(ctx, profile.ID, pos)
	e.resetTrackersLocked()
}

func (e *Evaluator) resetTrackersLocked() {
	e.session.Reset()
	e.run.Reset()
	e.runLesson = ""
}

func (e *Evaluator) matches(ex catalog.Exercise, answer string) bool {
	if e.mode == ModeCode {
		if code := catalog.CodeFor(ex); code != "" {
			return strings.ToUpper(strings.ReplaceAll(answer, " ", "")) == code
		}
	}
	return answer == strings.TrimSpace(ex.Answer())
}

func (e *Evaluator) expected(ex catalog.Exercise) string {
	if e.mode == ModeCode {
		if code := catalog.CodeFor(ex); code != "" {
			return code
		}
	}
	return strings.TrimSpace(ex.Answer())
}

func (e *Evaluator) lessonTitle(id string) string {
	if l, ok := e.lessons[id]; ok && l.Title != "" {
		return l.Title
	}
	return id
}
