package dictionary

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long a looked-up entry stays fresh.
	DefaultTTL = 24 * time.Hour
	// DefaultSize bounds the in-memory tier.
	DefaultSize = 512

	// KeyPrefix namespaces persisted entries in the key/value store.
	KeyPrefix = "cangtype.dictionary."
)

// Storage is the persistent tier. internal/store satisfies it.
type Storage interface {
	GetWithTime(ctx context.Context, key string) ([]byte, time.Time, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	DeleteExpired(ctx context.Context, prefix string, before time.Time) (int64, error)
}

// Cache wraps a Source with a per-character freshness window. Storage errors
// and undecodable rows count as misses; lookups never fail.
type Cache struct {
	source  Source
	storage Storage
	mem     *expirable.LRU[string, Entry]
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Cache.
type Option func(*cacheOptions)

type cacheOptions struct {
	ttl  time.Duration
	size int
	now  func() time.Time
	log  *zap.Logger
}

// WithTTL sets the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(o *cacheOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithSize sets the in-memory capacity.
func WithSize(size int) Option {
	return func(o *cacheOptions) {
		if size > 0 {
			o.size = size
		}
	}
}

// WithClock overrides the clock used for the persistent tier.
func WithClock(now func() time.Time) Option {
	return func(o *cacheOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *cacheOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// NewCache builds a cache. storage may be nil for a memory-only cache.
func NewCache(source Source, storage Storage, opts ...Option) *Cache {
	o := cacheOptions{ttl: DefaultTTL, size: DefaultSize, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{
		source:  source,
		storage: storage,
		mem:     expirable.NewLRU[string, Entry](o.size, nil, o.ttl),
		ttl:     o.ttl,
		now:     o.now,
		log:     o.log,
	}
}

// Lookup returns the entry for char, or an empty entry when nothing is available.
func (c *Cache) Lookup(ctx context.Context, char string) Entry {
	char = strings.TrimSpace(char)
	if char == "" {
		return Entry{}
	}
	if e, ok := c.mem.Get(char); ok {
		return e
	}
	if e, ok := c.readStored(ctx, char); ok {
		c.mem.Add(char, e)
		return e
	}

	if c.source == nil {
		return Entry{Char: char}
	}
	e, err := c.source.Lookup(ctx, char)
	if err != nil {
		c.log.Debug("dictionary lookup failed", zap.String("char", char), zap.Error(err))
		return Entry{Char: char}
	}
	e.Char = char
	c.mem.Add(char, e)
	c.writeStored(ctx, char, e)
	return e
}

func (c *Cache) readStored(ctx context.Context, char string) (Entry, bool) {
	if c.storage == nil {
		return Entry{}, false
	}
	data, at, found, err := c.storage.GetWithTime(ctx, KeyPrefix+char)
	if err != nil {
		c.log.Warn("dictionary cache read failed", zap.String("char", char), zap.Error(err))
		return Entry{}, false
	}
	if !found || c.now().Sub(at) >= c.ttl {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Debug("discarding malformed dictionary row", zap.String("char", char), zap.Error(err))
		return Entry{}, false
	}
	return e, true
}

func (c *Cache) writeStored(ctx context.Context, char string, e Entry) {
	if c.storage == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		c.log.Warn("dictionary cache encode failed", zap.String("char", char), zap.Error(err))
		return
	}
	if err := c.storage.Put(ctx, KeyPrefix+char, data); err != nil {
		c.log.Warn("dictionary cache write failed", zap.String("char", char), zap.Error(err))
	}
}

// Prune deletes persisted entries older than the freshness window.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	if c.storage == nil {
		return 0, nil
	}
	return c.storage.DeleteExpired(ctx, KeyPrefix, c.now().Add(-c.ttl))
}

// Purge drops the in-memory tier.
func (c *Cache) Purge() {
	c.mem.Purge()
}
