package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu      sync.Mutex
	data    map[string][]byte
	failPut bool
	getErr  map[string]error
	puts    int
}

func newMemBackend() *memBackend {
	return &memBackend{data: map[string][]byte{}}
}

func (m *memBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[key]; err != nil {
		return nil, false, err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memBackend) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("disk full")
	}
	m.puts++
	m.data[key] = append([]byte{}, value...)
	return nil
}

func (m *memBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestLoad_EmptyBackendYieldsDefaultProfile(t *testing.T) {
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	col := s.Load(context.Background())

	require.Len(t, col.Profiles, 1)
	assert.Equal(t, DefaultProfileName, col.Profiles[0].Name)
	assert.Equal(t, col.Profiles[0].ID, col.ActiveProfileID)
	assert.Empty(t, col.Profiles[0].Progress.KnownUnits)
}

func TestLoad_DefaultProfilePersisted(t *testing.T) {
	b := newMemBackend()
	first := NewStore(b).Load(context.Background())
	assert.Equal(t, 1, b.puts)

	second := NewStore(b)
	col := second.Load(context.Background())
	assert.Equal(t, first.ActiveProfileID, col.ActiveProfileID)

	p, err := second.Resolve(first.ActiveProfileID)
	require.NoError(t, err)
	assert.Equal(t, DefaultProfileName, p.Name)
}

func TestLoad_ReadErrorKeepsStoredState(t *testing.T) {
	b := newMemBackend()
	b.data[StorageKey] = []byte(`{"profiles":[{"id":"a","name":"Ana"}],"activeProfileId":"a"}`)
	b.data[LegacyStorageKey] = []byte(`{"cursor": 3, "knownUnits": ["日"]}`)
	b.getErr = map[string]error{StorageKey: errors.New("database is locked")}

	col := NewStore(b, WithIDGenerator(seqIDs())).Load(context.Background())
	require.Len(t, col.Profiles, 1)
	assert.Equal(t, DefaultProfileName, col.Profiles[0].Name)
	assert.Zero(t, b.puts)
	assert.Contains(t, b.data, LegacyStorageKey)
	assert.Contains(t, string(b.data[StorageKey]), `"Ana"`)
}

func TestLoad_MalformedBlobTreatedAsAbsent(t *testing.T) {
	b := newMemBackend()
	b.data[StorageKey] = []byte("{not json")
	s := NewStore(b, WithIDGenerator(seqIDs()))

	col := s.Load(context.Background())
	require.Len(t, col.Profiles, 1)
	assert.Equal(t, DefaultProfileName, col.Profiles[0].Name)
}

func TestLoad_RepairsActiveID(t *testing.T) {
	b := newMemBackend()
	raw, err := json.Marshal(Collection{
		Profiles:        []Profile{{ID: "a", Name: "Ana"}, {ID: "b", Name: "Bo"}},
		ActiveProfileID: "gone",
	})
	require.NoError(t, err)
	b.data[StorageKey] = raw

	col := NewStore(b).Load(context.Background())
	assert.Equal(t, "a", col.ActiveProfileID)
	assert.NotNil(t, col.Profiles[1].Progress.Mastery)
}

func TestLoad_MigratesLegacyOnce(t *testing.T) {
	b := newMemBackend()
	b.data[LegacyStorageKey] = []byte(`{
		"cursor": 3,
		"knownCharacters": ["日", "月", "日"],
		"mastery": {"日": {"level": 2}},
		"attempts": [{"lessonId": "foundations", "accuracy": 0.9, "speed": 12, "attempts": null, "completedAt": "2025-03-01T00:00:00Z"}],
		"summary": {"totalSessions": 1, "streak": 1, "longestStreak": 1, "lessonCompletions": {}}
	}`)

	s := NewStore(b, WithIDGenerator(seqIDs()))
	col := s.Load(context.Background())

	require.Len(t, col.Profiles, 1)
	p := col.Profiles[0]
	assert.Equal(t, DefaultProfileName, p.Name)
	assert.Equal(t, 3, p.Progress.Cursor)
	assert.Equal(t, []string{"日", "月"}, p.Progress.KnownUnits)
	assert.Equal(t, 2, p.Progress.Mastery["日"].Level)
	require.Len(t, p.Progress.Attempts, 1)
	assert.Nil(t, p.Progress.Attempts[0].Attempts)

	_, legacy := b.data[LegacyStorageKey]
	assert.False(t, legacy, "legacy key is removed after a successful save")
	_, current := b.data[StorageKey]
	assert.True(t, current)

	again := NewStore(b, WithIDGenerator(seqIDs())).Load(context.Background())
	assert.Equal(t, col, again)
}

func TestLoad_KeepsLegacyWhenSaveFails(t *testing.T) {
	b := newMemBackend()
	b.data[LegacyStorageKey] = []byte(`{"cursor": 1, "knownUnits": ["日"]}`)
	b.failPut = true

	col := NewStore(b, WithIDGenerator(seqIDs())).Load(context.Background())
	assert.Equal(t, 1, col.Profiles[0].Progress.Cursor)
	_, legacy := b.data[LegacyStorageKey]
	assert.True(t, legacy)
}

func TestLoad_PrefersCurrentOverLegacy(t *testing.T) {
	b := newMemBackend()
	raw, err := json.Marshal(Collection{Profiles: []Profile{{ID: "a", Name: "Ana", Progress: NewProgress()}}, ActiveProfileID: "a"})
	require.NoError(t, err)
	b.data[StorageKey] = raw
	b.data[LegacyStorageKey] = []byte(`{"cursor": 9}`)

	col := NewStore(b).Load(context.Background())
	assert.Equal(t, "Ana", col.Profiles[0].Name)
	assert.Equal(t, 0, col.Profiles[0].Progress.Cursor)
	_, legacy := b.data[LegacyStorageKey]
	assert.False(t, legacy)
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	b := newMemBackend()
	s := NewStore(b, WithIDGenerator(seqIDs()))
	s.Load(context.Background())
	b.failPut = true

	id := s.Active().ID
	p, ok := s.AdvanceCursor(context.Background(), id)
	require.True(t, ok)
	assert.Equal(t, 1, p.Cursor, "in-memory state keeps working")
	assert.Equal(t, 1, s.Active().Progress.Cursor)
}

func TestCreateProfile(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)

	_, err := s.CreateProfile(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Len(t, s.Snapshot().Profiles, 1)

	p, err := s.CreateProfile(ctx, "  Mei  ")
	require.NoError(t, err)
	assert.Equal(t, "Mei", p.Name)
	assert.Equal(t, p.ID, s.Snapshot().ActiveProfileID)
	assert.Len(t, s.Snapshot().Profiles, 2)
}

func TestDeleteProfile_NeverLeavesCollectionEmpty(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	only := s.Active().ID

	s.DeleteProfile(ctx, only)
	col := s.Snapshot()
	require.Len(t, col.Profiles, 1)
	assert.NotEqual(t, only, col.Profiles[0].ID)
	assert.Equal(t, DefaultProfileName, col.Profiles[0].Name)
	assert.Equal(t, col.Profiles[0].ID, col.ActiveProfileID)
}

func TestDeleteProfile_ActivatesFirstRemaining(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	first := s.Active().ID
	second, err := s.CreateProfile(ctx, "Two")
	require.NoError(t, err)

	s.DeleteProfile(ctx, second.ID)
	assert.Equal(t, first, s.Snapshot().ActiveProfileID)

	s.DeleteProfile(ctx, "unknown")
	assert.Len(t, s.Snapshot().Profiles, 1)
}

func TestSetActive_UnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	b := newMemBackend()
	s := NewStore(b, WithIDGenerator(seqIDs()))
	s.Load(ctx)
	before := s.Snapshot()
	puts := b.puts

	assert.False(t, s.SetActive(ctx, "nope"))
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, puts, b.puts)
}

func TestRecordAttempt_StreakAndCompletions(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	id := s.Active().ID

	runs := []AttemptRecord{
		{Accuracy: 0.9, Speed: 12},
		{Accuracy: 0.95, Speed: 9.5},
		{Accuracy: 0.5, Speed: 30},
		{Accuracy: 0.85, Speed: 8},
	}
	for _, rec := range runs {
		rec.LessonID = "foundations"
		rec.CompletedAt = now
		_, ok := s.RecordAttempt(ctx, id, rec)
		require.True(t, ok)
	}

	sum := s.Active().Progress.Summary
	assert.Equal(t, 4, sum.TotalSessions)
	assert.Equal(t, 1, sum.Streak)
	assert.Equal(t, 2, sum.LongestStreak)
	lc := sum.LessonCompletions["foundations"]
	assert.Equal(t, 4, lc.Count)
	assert.Equal(t, 0.95, lc.BestAccuracy)
	assert.Equal(t, 30.0, lc.BestSpeed)
	assert.Equal(t, 0.85, s.Active().Progress.Attempts[0].Accuracy, "newest first")
}

func TestRecordAttempt_CapsHistory(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	id := s.Active().ID

	for i := 0; i < MaxAttempts+5; i++ {
		s.RecordAttempt(ctx, id, AttemptRecord{LessonID: "x", Accuracy: 1, Speed: float64(i)})
	}
	p := s.Active().Progress
	assert.Len(t, p.Attempts, MaxAttempts)
	assert.Equal(t, float64(MaxAttempts+4), p.Attempts[0].Speed)
	assert.Equal(t, MaxAttempts+5, p.Summary.TotalSessions)
}

func TestCompleteExercise_LearnsAndAdvances(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	id := s.Active().ID

	p, ok := s.CompleteExercise(ctx, id, []string{"好", "學"}, now)
	require.True(t, ok)
	assert.Equal(t, 1, p.Cursor)
	assert.ElementsMatch(t, []string{"好", "學"}, p.KnownUnits)
	assert.Equal(t, 1, p.Mastery["好"].Level)
	assert.Equal(t, now.Add(4*time.Hour), p.Mastery["好"].NextReviewAt)

	_, ok = s.CompleteExercise(ctx, "ghost", []string{"x"}, now)
	assert.False(t, ok)
}

func TestReveal_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	id := s.Active().ID
	s.CompleteExercise(ctx, id, []string{"日"}, now)

	assert.True(t, s.Reveal(ctx, id, "日", now.Add(time.Minute)))
	assert.False(t, s.Reveal(ctx, id, "日", now.Add(2*time.Minute)))
	r := s.Active().Progress.Mastery["日"]
	assert.Equal(t, 0, r.Level)
	assert.Equal(t, now.Add(time.Minute), r.NextReviewAt)
}

func TestResetStreakAndSetCursor(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	id := s.Active().ID
	s.RecordAttempt(ctx, id, AttemptRecord{LessonID: "x", Accuracy: 1})

	p, _ := s.ResetStreak(ctx, id)
	assert.Equal(t, 0, p.Summary.Streak)
	assert.Equal(t, 1, p.Summary.LongestStreak)

	p, _ = s.SetCursor(ctx, id, -4)
	assert.Equal(t, 0, p.Cursor)
	p, _ = s.SetCursor(ctx, id, 7)
	assert.Equal(t, 7, p.Cursor)
}

func TestSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)

	snap := s.Snapshot()
	snap.Profiles[0].Name = "mutated"
	snap.Profiles[0].Progress.Mastery["x"] = snap.Profiles[0].Progress.Mastery["y"]
	assert.Equal(t, DefaultProfileName, s.Active().Name)
	assert.Empty(t, s.Active().Progress.Mastery)
}

func TestPersistedRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newMemBackend()
	s := NewStore(b, WithIDGenerator(seqIDs()))
	s.Load(ctx)
	id := s.Active().ID
	s.CompleteExercise(ctx, id, []string{"日"}, now)
	s.RecordAttempt(ctx, id, AttemptRecord{LessonID: "foundations", Accuracy: 1, Speed: 20, CompletedAt: now})

	reloaded := NewStore(b, WithIDGenerator(seqIDs())).Load(ctx)
	assert.Equal(t, s.Snapshot(), reloaded)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemBackend(), WithIDGenerator(seqIDs()))
	s.Load(ctx)
	mei, err := s.CreateProfile(ctx, "Mei")
	require.NoError(t, err)

	p, err := s.Resolve("mei")
	require.NoError(t, err)
	assert.Equal(t, mei.ID, p.ID)

	p, err = s.Resolve(mei.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mei", p.Name)

	_, err = s.Resolve("nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
