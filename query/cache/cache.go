// Package cache provides per-key lazy caching.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader computes the value for a key.
type Loader[V any] func(ctx context.Context, key string) (V, error)

// Lazy computes a value the first time its key is requested and keeps it
// for the lifetime of the cache. Concurrent requests for a key that is
// still loading share the pending computation. Failed computations are
// not stored, so the next request retries.
type Lazy[V any] struct {
	mu     sync.RWMutex
	data   map[string]V
	group  singleflight.Group
	load   Loader[V]
	hits   int64
	misses int64
}

// Stats represents cache statistics
type Stats struct {
	Hits   int64
	Misses int64
	Size   int
}

// NewLazy creates a cache backed by load.
func NewLazy[V any](load Loader[V]) *Lazy[V] {
	return &Lazy[V]{
		data: make(map[string]V),
		load: load,
	}
}

// Get returns the cached value for key, computing it on a miss. The
// shared load keeps the values of ctx but not its cancellation, so one
// caller giving up does not fail the others waiting on the same key.
func (c *Lazy[V]) Get(ctx context.Context, key string) (V, error) {
	c.mu.Lock()
	if v, ok := c.data[key]; ok {
		c.hits++
		c.mu.Unlock()
		return v, nil
	}
	c.misses++
	c.mu.Unlock()

	loadCtx := context.WithoutCancel(ctx)
	out, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		v, ok := c.data[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := c.load(loadCtx, key)
		if err != nil {
			return v, err
		}

		c.mu.Lock()
		c.data[key] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, fmt.Errorf("cache: load %q: %w", key, err)
	}
	return out.(V), nil
}

// Peek returns the cached value for key without computing it.
func (c *Lazy[V]) Peek(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Set stores a value, replacing any cached one.
func (c *Lazy[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Invalidate removes a key so the next Get recomputes it.
func (c *Lazy[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear removes all entries and resets the statistics.
func (c *Lazy[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]V)
	c.hits = 0
	c.misses = 0
}

// GetStats returns cache statistics
func (c *Lazy[V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses, Size: len(c.data)}
}
