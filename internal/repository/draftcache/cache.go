// Package draftcache keeps validated drafts for recently seen query text, so
// repeated questions skip the translator.
package draftcache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nlquery/internal/domain/query"
)

// TTL is the fixed lifetime of a cache entry.
const TTL = 5 * time.Minute

type entry struct {
	value     query.Validated
	createdAt time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Cache is an in-process TTL map from normalized query text to a validated
// draft. Safe for concurrent use; concurrent puts for one key are last write
// wins.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an empty cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(cacheTotal *prometheus.CounterVec, logger *zap.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		entries:    make(map[string]entry),
		now:        time.Now,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Key normalizes query text: trimmed, inner whitespace collapsed, lower case.
func Key(text string) string { return query.FoldText(text) }

// Get returns the entry for text if it is younger than TTL, counting a hit or
// a miss. An expired entry is evicted.
func (c *Cache) Get(text string) (query.Validated, bool) {
	q, ok := c.Peek(text)
	if !ok {
		c.inc("miss")
		return query.Validated{}, false
	}
	c.inc("hit")
	return q, true
}

// Peek is Get without the hit/miss counter, for re-checks of a lookup that
// was already counted.
func (c *Cache) Peek(text string) (query.Validated, bool) {
	key := Key(text)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return query.Validated{}, false
	}
	if now.Sub(e.createdAt) >= TTL {
		delete(c.entries, key)
		return query.Validated{}, false
	}
	return e.value, true
}

// Put stores a validated draft under text, stamped with the current time.
func (c *Cache) Put(text string, q query.Validated) {
	key := Key(text)
	now := c.now()

	c.mu.Lock()
	c.entries[key] = entry{value: q, createdAt: now}
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep evicts every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.createdAt) >= TTL {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is canceled.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug("Draft cache swept", zap.Int("evicted", n), zap.Int("remaining", c.Len()))
			}
		}
	}
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
