package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dharmasatrya/tripsearch/internal/models"
)

const (
	DefaultTTL      = 5 * time.Minute
	DefaultCapacity = 200
	keyPrefix       = "trip:search:"
)

var ErrMiss = errors.New("cache miss")

// Store is the durable tier shared between instances.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeleteMatching removes every search result key containing substring and
	// reports how many went. Keys outside the search prefix are never touched.
	DeleteMatching(ctx context.Context, substring string) (int, error)
	Close() error
}

// BuildKey is the cache key of a normalized query.
func BuildKey(origin, dest, date string, mode models.Mode) string {
	return fmt.Sprintf("%s%s:%s:%s:%s", keyPrefix, origin, dest, date, mode)
}

type memEntry struct {
	value     *models.SearchResponse
	expiresAt time.Time
}

type Option func(*TieredCache)

func WithClock(now func() time.Time) Option {
	return func(c *TieredCache) { c.now = now }
}

func WithCapacity(n int) Option {
	return func(c *TieredCache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *TieredCache) { c.logger = l }
}

// TieredCache reads the durable store first and falls back to a bounded
// in-process map. Writes go to both.
type TieredCache struct {
	store    Store
	capacity int
	now      func() time.Time
	logger   zerolog.Logger

	mu    sync.Mutex
	mem   map[string]memEntry
	order []string
}

func NewTieredCache(store Store, opts ...Option) *TieredCache {
	if store == nil {
		store = NoOpStore{}
	}
	c := &TieredCache{
		store:    store,
		capacity: DefaultCapacity,
		now:      time.Now,
		logger:   zerolog.Nop(),
		mem:      make(map[string]memEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a private copy of the cached response for key.
func (c *TieredCache) Get(ctx context.Context, key string) (*models.SearchResponse, bool) {
	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var resp models.SearchResponse
		if jerr := json.Unmarshal(data, &resp); jerr == nil {
			return &resp, true
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	case !errors.Is(err, ErrMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("durable cache read failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.mem[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.removeLocked(key)
		return nil, false
	}
	return entry.value.Clone(), true
}

// Set writes through to the durable store and always mirrors into memory.
// The returned error is the durable write failure, if any.
func (c *TieredCache) Set(ctx context.Context, key string, value *models.SearchResponse, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	var storeErr error
	data, err := json.Marshal(value)
	if err != nil {
		storeErr = fmt.Errorf("encode cache entry: %w", err)
	} else if err := c.store.Set(ctx, key, data, ttl); err != nil {
		storeErr = fmt.Errorf("durable cache write: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.mem[key]; !exists {
		if len(c.order) >= c.capacity {
			c.removeLocked(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.mem[key] = memEntry{value: value.Clone(), expiresAt: c.now().Add(ttl)}

	return storeErr
}

// Invalidate drops every entry whose key contains substring from both tiers
// and returns how many in-memory entries were removed.
func (c *TieredCache) Invalidate(ctx context.Context, substring string) int {
	if n, err := c.store.DeleteMatching(ctx, substring); err != nil {
		c.logger.Warn().Err(err).Str("pattern", substring).Msg("durable cache invalidation failed")
	} else if n > 0 {
		c.logger.Debug().Int("removed", n).Str("pattern", substring).Msg("durable cache entries removed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var doomed []string
	for _, k := range c.order {
		if strings.Contains(k, substring) {
			doomed = append(doomed, k)
		}
	}
	for _, k := range doomed {
		c.removeLocked(k)
	}
	return len(doomed)
}

func (c *TieredCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mem)
}

func (c *TieredCache) Close() error {
	return c.store.Close()
}

func (c *TieredCache) removeLocked(key string) {
	delete(c.mem, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
