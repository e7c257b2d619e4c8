// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache provides a small in-process TTL cache.
//
// # Description
//
// The cache is an explicitly owned object injected into the components
// that need it (rather than ambient package-level state), which keeps
// tests isolated and makes expiry deterministic via the Clock interface.
// It is a read-through cache: entries are never invalidated explicitly,
// they simply expire.
//
// # Thread Safety
//
// All methods are safe for concurrent use. There is no cross-key
// ordering guarantee and none is needed by callers.
package cache

import (
	"sync"
	"time"
)

// =============================================================================
// Clock
// =============================================================================

// Clock abstracts time.Now so tests can control expiry.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// systemClock is the production Clock backed by time.Now.
type systemClock struct{}

// Now returns the system time.
func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the system time.
func SystemClock() Clock { return systemClock{} }

// FixedClock is a Clock whose time is advanced manually. Use in tests to
// exercise expiry without sleeping.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a FixedClock starting at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the clock's current (manually controlled) time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// =============================================================================
// TTL Cache
// =============================================================================

// entry is one cached value with its absolute expiry instant.
type entry[V any] struct {
	value   V
	expires time.Time
}

// TTL is a string-keyed cache whose entries expire after a fixed
// duration.
//
// # Description
//
// Get returns the zero value and false for missing or expired keys.
// Expired entries are lazily dropped on read and opportunistically swept
// on write once the map grows past sweepThreshold, so an abandoned cache
// cannot grow without bound.
//
// # Examples
//
//	c := cache.NewTTL[[]Suggestion](60*time.Second, cache.SystemClock())
//	if v, ok := c.Get(query); ok {
//	    return v
//	}
//	v := expensiveLookup(query)
//	c.Set(query, v)
type TTL[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   Clock
}

// sweepThreshold is the entry count past which Set sweeps expired keys.
const sweepThreshold = 1024

// NewTTL creates a TTL cache with the given entry lifetime.
//
// # Inputs
//
//   - ttl: how long entries stay valid after Set.
//   - clock: time source. Pass SystemClock() in production.
//
// # Outputs
//
//   - *TTL[V]: ready-to-use cache.
func NewTTL[V any](ttl time.Duration, clock Clock) *TTL[V] {
	if clock == nil {
		clock = SystemClock()
	}
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the cached value for key, or (zero, false) if the key is
// absent or expired. An expired entry is removed on the spot.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.clock.Now().After(e.expires) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, still := c.entries[key]; still && c.clock.Now().After(cur.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, valid for the cache's TTL from now.
func (c *TTL[V]) Set(key string, value V) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= sweepThreshold {
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = entry[V]{value: value, expires: now.Add(c.ttl)}
}

// Len returns the number of stored entries, including not-yet-swept
// expired ones. Intended for tests and metrics.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
