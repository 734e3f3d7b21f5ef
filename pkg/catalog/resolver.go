package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/keno-tools/catalog-proxy/pkg/cache"
	"github.com/keno-tools/catalog-proxy/pkg/keno"
)

// CategoryFetcher is the vendor operation the resolver depends on.
type CategoryFetcher interface {
	FetchCategoryTree(ctx context.Context) ([]keno.CategoryNode, error)
}

// Resolver turns a MatchSpec into a concrete category ID set. The flattened
// tree is cached under one key with a long TTL; resolution over the flat
// slice is cheap, and caching the whole tree keeps the diagnostic mode and
// every spec variant on one staleness cadence.
type Resolver struct {
	fetcher CategoryFetcher
	store   *cache.Store
	ttl     time.Duration
	locale  string
	group   singleflight.Group
}

// NewResolver creates a resolver backed by fetcher and store. ttl governs
// how long a fetched tree is reused; the vendor categories are near-static,
// so hour-scale values are appropriate.
func NewResolver(fetcher CategoryFetcher, store *cache.Store, ttl time.Duration, locale string) *Resolver {
	if fetcher == nil {
		panic("category fetcher cannot be nil")
	}
	if store == nil {
		panic("cache store cannot be nil")
	}
	return &Resolver{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
		locale:  locale,
	}
}

// Categories returns the flattened category tree, fetching it from the
// vendor on a cache miss. This is also the diagnostic inspection path; it
// has no side effects beyond the tree fetch and caching.
func (r *Resolver) Categories(ctx context.Context) ([]FlatCategory, error) {
	key := cache.CategoryTreeKey(r.locale)

	if entry, ok := r.store.GetFresh(key, r.ttl); ok {
		return entry.Value.([]FlatCategory), nil
	}

	// Concurrent misses coalesce into one vendor call.
	v, err, _ := r.group.Do(key, func() (any, error) {
		if entry, ok := r.store.GetFresh(key, r.ttl); ok {
			return entry.Value, nil
		}

		// A failed fetch leaves the store untouched.
		tree, err := r.fetcher.FetchCategoryTree(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch category tree: %w", err)
		}

		flat := Flatten(tree)
		r.store.Put(key, flat)

		log.Debug().
			Str("key", key).
			Int("categories", len(flat)).
			Dur("ttl", r.ttl).
			Msg("Cached category tree")

		return flat, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]FlatCategory), nil
}

// Resolve maps spec to a deduplicated category ID set. An empty result is a
// valid "nothing matched" outcome, not an error. Resolution against an
// unchanged tree is deterministic and idempotent.
func (r *Resolver) Resolve(ctx context.Context, spec MatchSpec) ([]int64, error) {
	if spec == nil {
		return nil, fmt.Errorf("match spec is required")
	}

	if !spec.needsTree() {
		return spec.resolve(nil), nil
	}

	categories, err := r.Categories(ctx)
	if err != nil {
		return nil, err
	}

	ids := spec.resolve(categories)

	log.Debug().
		Str("spec", spec.String()).
		Int("matched", len(ids)).
		Msg("Resolved match spec")

	return ids, nil
}
