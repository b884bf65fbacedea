// Package cache provides a small in-memory store with per-entry expiry.
// Expiry is checked lazily on read; nothing is evicted in the background.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// InMemory is a thread-safe in-memory cache. Writes are last-writer-wins.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	now   func() time.Time
}

// Option customizes an InMemory cache.
type Option func(*cacheOptions)

type cacheOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *cacheOptions) { o.now = now }
}

// New creates an empty cache. Every entry carries its own expiry.
func New[T any](opts ...Option) *InMemory[T] {
	o := cacheOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &InMemory[T]{
		items: make(map[string]entry[T]),
		now:   o.now,
	}
}

// Get retrieves a value. Returns false if not found or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// SetUntil stores a value that expires at the given instant.
func (c *InMemory[T]) SetUntil(key string, value T, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{value: value, expiresAt: expiresAt}
}

// Delete removes a value from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Now exposes the cache clock so callers compute expiries on the same timeline.
func (c *InMemory[T]) Now() time.Time {
	return c.now()
}
