package source

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/metrics"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// TableCache is a thread-safe LRU cache of loaded tables, keyed by source
// name. Each entry remembers the fingerprint it was loaded at; a lookup with
// a different fingerprint invalidates the entry.
type TableCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*cacheEntry
	order   []string // oldest first
}

type cacheEntry struct {
	fingerprint string
	table       *admission.Table
}

// NewTableCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 4.
func NewTableCache(maxSize int) *TableCache {
	if maxSize <= 0 {
		maxSize = 4
	}
	return &TableCache{
		maxSize: maxSize,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns a private copy of the cached table for name if it was stored
// at the given fingerprint, or nil. A stale entry is dropped.
func (c *TableCache) Get(name, fingerprint string) *admission.Table {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[name]
	if !ok {
		return nil
	}
	if entry.fingerprint != fingerprint {
		c.remove(name)
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(name)
	return entry.table.Clone()
}

// Put stores a private copy of t for name at fingerprint, evicting the oldest
// entry if full.
func (c *TableCache) Put(name, fingerprint string, t *admission.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{fingerprint: fingerprint, table: t.Clone()}
	if _, ok := c.entries[name]; ok {
		c.entries[name] = entry
		c.moveToEnd(name)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[name] = entry
	c.order = append(c.order, name)
}

// Invalidate drops the entry for name.
func (c *TableCache) Invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(name)
}

// Len returns the number of cached tables.
func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TableCache) remove(name string) {
	if _, ok := c.entries[name]; !ok {
		return
	}
	delete(c.entries, name)
	for i, k := range c.order {
		if k == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *TableCache) moveToEnd(name string) {
	for i, k := range c.order {
		if k == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, name)
			return
		}
	}
}

// Cached wraps a Source with a TableCache. Loads are served from the cache
// while the source fingerprint is unchanged; every caller gets its own copy.
type Cached struct {
	src    Source
	cache  *TableCache
	logger *zap.Logger
}

// NewCached wraps src with cache.
func NewCached(src Source, cache *TableCache, logger *zap.Logger) *Cached {
	return &Cached{src: src, cache: cache, logger: logger}
}

func (c *Cached) Name() string {
	return c.src.Name()
}

func (c *Cached) Fingerprint(ctx context.Context) (string, error) {
	return c.src.Fingerprint(ctx)
}

// Load returns the cached table when the fingerprint matches, otherwise loads
// from the source and caches the result. A source that cannot be
// fingerprinted is loaded directly and not cached.
func (c *Cached) Load(ctx context.Context) (*admission.Table, error) {
	fp, err := c.src.Fingerprint(ctx)
	if err != nil {
		c.logger.Warn("source fingerprint failed, bypassing cache",
			zap.String("source", c.src.Name()),
			zap.Error(err),
		)
		c.cache.Invalidate(c.src.Name())
		return c.src.Load(ctx)
	}

	if t := c.cache.Get(c.src.Name(), fp); t != nil {
		metrics.RecordLoadCache(true)
		c.logger.Debug("admissions cache hit", zap.String("source", c.src.Name()))
		return t, nil
	}
	metrics.RecordLoadCache(false)

	t, err := c.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Put(c.src.Name(), fp, t)
	c.logger.Debug("admissions cache stored",
		zap.String("source", c.src.Name()),
		zap.Int("records", t.Len()),
	)
	return t, nil
}
