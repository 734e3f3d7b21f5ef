// Package cache provides the in-process TTL cache shared by the catalog
// pipeline.
//
// The store is a process-wide key/value map with per-read freshness checks:
// entries carry only the time they were stored, and the caller supplies the
// TTL it is willing to accept. That keeps one store usable for both the
// slow-moving category tree (hour-scale TTL) and the volatile product base
// (minute-scale TTL).
//
// # Basic Usage
//
//	store := cache.NewStore()
//
//	if entry, ok := store.GetFresh(key, 10*time.Minute); ok {
//		return entry.Value
//	}
//
//	value, err := fetchFromVendor(ctx)
//	if err != nil {
//		return err // store untouched, a prior good entry stays servable
//	}
//	store.Put(key, value)
//
// # Semantics
//
//   - A miss is a normal result, not an error.
//   - Put is an atomic last-writer-wins replace; entries are never mutated
//     in place, so readers never observe a partial write.
//   - There is no eviction beyond expiry-on-read. The key space is small
//     (one tree key plus one key per distinct ID set) and the process is
//     short-lived, so unbounded growth is accepted.
//
// # Metrics
//
// The store exports Prometheus metrics:
//
//   - keno_cache_hits_total{layer="memory"} - fresh hits
//   - keno_cache_misses_total - misses (absent or stale)
//   - keno_cache_entries{layer="memory"} - live entry count
package cache
