package cache

import (
	"sync"
	"time"
)

// Store is a process-wide keyed cache mapping string keys to timestamped
// entries. It is safe for concurrent use; a single RWMutex guards the map,
// which makes single-key read and replace atomic.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewStore creates an empty store using the wall clock.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates an empty store with an injected clock.
// Tests use this to drive TTL expiry without sleeping.
func NewStoreWithClock(now func() time.Time) *Store {
	if now == nil {
		panic("clock cannot be nil")
	}
	return &Store{
		entries: make(map[string]Entry),
		now:     now,
	}
}

// Get returns the entry for key, fresh or not. The second return value is
// false on a miss. Callers that only care about fresh data should use
// GetFresh instead.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	return entry, ok
}

// GetFresh returns the entry for key if it exists and is younger than ttl.
// A stale or absent entry counts as a miss.
func (s *Store) GetFresh(key string, ttl time.Duration) (Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !entry.Fresh(s.now(), ttl) {
		cacheMisses.Inc()
		return Entry{}, false
	}

	cacheHits.WithLabelValues("memory").Inc()
	return entry, true
}

// Put stores value under key, stamped with the current clock time.
// An existing entry is replaced wholesale (last writer wins).
func (s *Store) Put(key string, value any) {
	if key == "" {
		panic("cache key cannot be empty")
	}

	entry := Entry{
		Value:    value,
		StoredAt: s.now(),
	}

	s.mu.Lock()
	s.entries[key] = entry
	size := len(s.entries)
	s.mu.Unlock()

	cacheEntries.WithLabelValues("memory").Set(float64(size))
}

// Len returns the number of live entries, stale ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
