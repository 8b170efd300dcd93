// Package cache memoizes expensive native reads behind per-metric TTLs and
// owns the lifetime of long-lived native handles through the Pool.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	fetchedAt time.Time
	ttl       time.Duration
}

// Store is a TTL-keyed memoization layer. Each metric id owns one entry;
// entries are mutated only by the refresh path.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// GetOrRefresh returns the cached value for metric when it is younger than
// ttl, otherwise runs fetch and stores the result.
//
// There is no request coalescing: concurrent callers that all observe a
// stale entry each run fetch once, and the last writer's value wins. That
// is acceptable because fetches are idempotent reads, but callers should
// not assume a cold metric is fetched exactly once under concurrency.
func (s *Store) GetOrRefresh(metric string, ttl time.Duration, fetch func() (any, error)) (any, error) {
	s.mu.Lock()
	if e, ok := s.entries[metric]; ok && s.now().Sub(e.fetchedAt) < e.ttl {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	// The lock is dropped during fetch so a slow native call cannot stall
	// readers of other metrics or fresh readers of this one.
	v, err := fetch()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[metric] = entry{value: v, fetchedAt: s.now(), ttl: ttl}
	s.mu.Unlock()

	return v, nil
}

// Invalidate drops the entry for metric so the next read refetches.
func (s *Store) Invalidate(metric string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, metric)
}

// GetOrRefresh is the typed wrapper around Store.GetOrRefresh. T should be a
// value type, or treated as read-only by all callers, since concurrent
// readers share the stored value.
func GetOrRefresh[T any](s *Store, metric string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	v, err := s.GetOrRefresh(metric, ttl, func() (any, error) {
		return fetch()
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}
