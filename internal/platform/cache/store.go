// Package cache provides caching building blocks: an in-process TTL store and
// Redis-backed decorators for repository interfaces.
package cache

import (
	"sync"
	"time"
)

// Entry is one cached value together with the time it was fetched upstream.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

// Store is a process-lifetime in-memory cache keyed by request shape.
// Entries are overwritten on refresh and never evicted; the gateway's TTLs
// keep stale values from being served. Safe for concurrent use.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[T]
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{entries: make(map[string]Entry[T])}
}

// Get returns the cached value for key if it was fetched within ttl of now.
func (s *Store[T]) Get(key string, now time.Time, ttl time.Duration) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || now.Sub(e.FetchedAt) >= ttl {
		var zero T
		return zero, false
	}
	return e.Value, true
}

// Put stores value under key. The write is recency-guarded: when two fetches
// for the same key race, a result fetched earlier than the stored entry is
// dropped so a slow response cannot regress freshness. Returns whether the
// value was stored.
func (s *Store[T]) Put(key string, value T, fetchedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.entries[key]; ok && fetchedAt.Before(cur.FetchedAt) {
		return false
	}
	s.entries[key] = Entry[T]{Value: value, FetchedAt: fetchedAt}
	return true
}

// FetchedAt returns when the entry for key was last stored.
func (s *Store[T]) FetchedAt(key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return e.FetchedAt, ok
}

// Len returns the number of entries currently stored.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
