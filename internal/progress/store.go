package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidName is returned for an empty profile name.
	ErrInvalidName = errors.New("profile name must not be empty")
	// ErrProfileNotFound is returned when a profile id or name does not match.
	ErrProfileNotFound = errors.New("profile not found")
)

// Backend persists opaque blobs under fixed keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store owns the in-memory Collection. Every mutation replaces the whole
// collection under one mutex and then persists it.
type Store struct {
	mu      sync.Mutex
	backend Backend
	col     Collection
	log     *zap.Logger
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithIDGenerator overrides profile id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates a store. Call Load before use; until then it holds one default profile.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.col.normalize(s.newID)
	return s
}

// Load reads the persisted collection, migrating the legacy blob once.
// Malformed state is treated as absent. A freshly synthesized default profile
// is persisted so its id stays stable across runs. When the current blob
// cannot be read, the legacy blob is left alone and nothing is written.
func (s *Store) Load(ctx context.Context) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.readCurrent(ctx)
	switch {
	case err != nil:
		s.col = Collection{}
		s.col.normalize(s.newID)
		return s.col.Clone()
	case col != nil:
		s.col = *col
		s.dropLegacy(ctx)
		return s.col.Clone()
	}

	if migrated, ok := s.readLegacy(ctx); ok {
		s.col = migrated
		if err := s.persist(ctx, s.col); err == nil {
			s.dropLegacy(ctx)
		}
		s.log.Info("migrated legacy progress", zap.String("profile", s.col.ActiveProfileID))
		return s.col.Clone()
	}

	s.col = Collection{}
	s.col.normalize(s.newID)
	_ = s.persist(ctx, s.col)
	return s.col.Clone()
}

// readCurrent returns nil with a nil error when no usable collection is stored.
func (s *Store) readCurrent(ctx context.Context) (*Collection, error) {
	data, found, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		s.log.Warn("failed to read progress", zap.Error(err))
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var col Collection
	if err := json.Unmarshal(data, &col); err != nil {
		s.log.Warn("discarding malformed progress", zap.Error(err))
		return nil, nil
	}
	col.normalize(s.newID)
	return &col, nil
}

func (s *Store) readLegacy(ctx context.Context) (Collection, bool) {
	data, found, err := s.backend.Get(ctx, LegacyStorageKey)
	if err != nil {
		s.log.Warn("failed to read legacy progress", zap.Error(err))
		return Collection{}, false
	}
	if !found {
		return Collection{}, false
	}
	old, err := DecodeLegacy(data)
	if err != nil {
		s.log.Warn("discarding malformed legacy progress", zap.Error(err))
		return Collection{}, false
	}
	p := LegacyToProfile(old, s.newID())
	return Collection{Profiles: []Profile{p}, ActiveProfileID: p.ID}, true
}

func (s *Store) dropLegacy(ctx context.Context) {
	if err := s.backend.Delete(ctx, LegacyStorageKey); err != nil {
		s.log.Warn("failed to remove legacy progress", zap.Error(err))
	}
}

// Save persists col and makes it current. Failures are logged, never returned.
func (s *Store) Save(ctx context.Context, col Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := col.Clone()
	next.normalize(s.newID)
	s.col = next
	_ = s.persist(ctx, next)
}

func (s *Store) persist(ctx context.Context, col Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		s.log.Warn("failed to encode progress", zap.Error(err))
		return err
	}
	if err := s.backend.Put(ctx, StorageKey, data); err != nil {
		s.log.Warn("failed to save progress", zap.Error(err))
		return err
	}
	return nil
}

// mutate applies fn to a copy of the collection, swaps it in and persists it.
func (s *Store) mutate(ctx context.Context, fn func(*Collection) bool) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.col.Clone()
	if !fn(&next) {
		return s.col.Clone()
	}
	next.normalize(s.newID)
	s.col = next
	_ = s.persist(ctx, next)
	return next.Clone()
}

func (s *Store) mutateProfile(ctx context.Context, id string, fn func(*Progress) bool) (Progress, bool) {
	var out Progress
	found := false
	s.mutate(ctx, func(c *Collection) bool {
		i := c.indexOf(id)
		if i < 0 {
			return false
		}
		found = true
		changed := fn(&c.Profiles[i].Progress)
		out = c.Profiles[i].Progress.Clone()
		return changed
	})
	return out, found
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Clone()
}

// Active returns a copy of the active profile.
func (s *Store) Active() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _ := s.col.Active()
	return p.Clone()
}

// CreateProfile adds a profile with empty progress and activates it.
func (s *Store) CreateProfile(ctx context.Context, name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, ErrInvalidName
	}
	p := Profile{ID: s.newID(), Name: name, Progress: NewProgress()}
	s.mutate(ctx, func(c *Collection) bool {
		c.Profiles = append(c.Profiles, p)
		c.ActiveProfileID = p.ID
		return true
	})
	return p.Clone(), nil
}

// DeleteProfile removes a profile. The collection is never left empty.
func (s *Store) DeleteProfile(ctx context.Context, id string) {
	s.mutate(ctx, func(c *Collection) bool {
		i := c.indexOf(id)
		if i < 0 {
			return false
		}
		c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
		if len(c.Profiles) == 0 {
			fresh := Profile{ID: s.newID(), Name: DefaultProfileName, Progress: NewProgress()}
			c.Profiles = []Profile{fresh}
		}
		if c.ActiveProfileID == id {
			c.ActiveProfileID = c.Profiles[0].ID
		}
		return true
	})
}

// SetActive activates a profile. Unknown ids are ignored; it reports whether id matched.
func (s *Store) SetActive(ctx context.Context, id string) bool {
	matched := false
	s.mutate(ctx, func(c *Collection) bool {
		if c.indexOf(id) < 0 {
			return false
		}
		matched = true
		if c.ActiveProfileID == id {
			return false
		}
		c.ActiveProfileID = id
		return true
	})
	return matched
}

// RecordAttempt appends a lesson run and updates completions and streaks.
func (s *Store) RecordAttempt(ctx context.Context, profileID string, rec AttemptRecord) (Progress, bool) {
	return s.mutateProfile(ctx, profileID, func(p *Progress) bool {
		p.recordAttempt(rec)
		return true
	})
}

// AdvanceCursor moves the cursor one exercise forward.
func (s *Store) AdvanceCursor(ctx context.Context, profileID string) (Progress, bool) {
	return s.mutateProfile(ctx, profileID, func(p *Progress) bool {
		p.Cursor++
		return true
	})
}

// SetCursor moves the cursor to index.
func (s *Store) SetCursor(ctx context.Context, profileID string, index int) (Progress, bool) {
	if index < 0 {
		index = 0
	}
	return s.mutateProfile(ctx, profileID, func(p *Progress) bool {
		if p.Cursor == index {
			return false
		}
		p.Cursor = index
		return true
	})
}

// ResetStreak zeroes the running streak.
func (s *Store) ResetStreak(ctx context.Context, profileID string) (Progress, bool) {
	return s.mutateProfile(ctx, profileID, func(p *Progress) bool {
		if p.Summary.Streak == 0 {
			return false
		}
		p.Summary.Streak = 0
		return true
	})
}

// CompleteExercise records success for every unit and advances the cursor as one update.
func (s *Store) CompleteExercise(ctx context.Context, profileID string, units []string, now time.Time) (Progress, bool) {
	return s.mutateProfile(ctx, profileID, func(p *Progress) bool {
		p.learn(units, now)
		p.Cursor++
		return true
	})
}

// Reveal resets a unit's mastery so it is due at now. It reports whether anything changed.
func (s *Store) Reveal(ctx context.Context, profileID, unit string, now time.Time) bool {
	changed := false
	s.mutateProfile(ctx, profileID, func(p *Progress) bool {
		changed = p.reveal(unit, now)
		return changed
	})
	return changed
}

// Resolve finds a profile by id or case-insensitive name.
func (s *Store) Resolve(ref string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.col.Find(ref); ok {
		return p.Clone(), nil
	}
	for _, p := range s.col.Profiles {
		if strings.EqualFold(p.Name, ref) {
			return p.Clone(), nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, ref)
}
