package cache

import (
	"sync"
	"time"
)

// entry holds a cached value with its creation timestamp.
type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache is a simple in-memory TTL cache keyed by string.
// It is safe for concurrent use.
//
// Expiry is checked when an entry is read: an entry older than the TTL is
// treated as absent. There is no background eviction; stale entries are
// dropped when Set needs room.
type Cache[V any] struct {
	mu         sync.RWMutex
	store      map[string]*entry[V]
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

// New creates a Cache holding at most maxEntries values for ttl each.
// A maxEntries <= 0 means unbounded.
func New[V any](ttl time.Duration, maxEntries int) *Cache[V] {
	return &Cache[V]{
		store:      make(map[string]*entry[V]),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// SetClock replaces the time source. Call it before the cache is shared.
func (c *Cache[V]) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Get returns the value stored under key if it is younger than the TTL.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || !c.fresh(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. If the cache is at capacity, expired entries
// are dropped first and then, if still full, one random entry is evicted.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && c.maxEntries > 0 && len(c.store) >= c.maxEntries {
		for k, e := range c.store {
			if !c.fresh(e) {
				delete(c.store, k)
			}
		}
		// Map iteration order is random in Go.
		if len(c.store) >= c.maxEntries {
			for k := range c.store {
				delete(c.store, k)
				break
			}
		}
	}

	c.store[key] = &entry[V]{
		value:     value,
		createdAt: c.now(),
	}
}

// Len reports how many unexpired entries the cache holds.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.store {
		if c.fresh(e) {
			n++
		}
	}
	return n
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	c.store = make(map[string]*entry[V])
	c.mu.Unlock()
}

func (c *Cache[V]) fresh(e *entry[V]) bool {
	return c.now().Sub(e.createdAt) < c.ttl
}
