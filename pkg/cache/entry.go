package cache

import (
	"time"
)

// Entry is one stored cache value together with its storage time.
type Entry struct {
	// Value is the cached payload. Values are treated as immutable once
	// stored; refreshing a key replaces the whole entry.
	Value any

	// StoredAt is when the value was written.
	StoredAt time.Time
}

// Fresh reports whether the entry is still within ttl as of now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

// Age returns how old the entry is as of now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}
