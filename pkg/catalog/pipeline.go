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

// connectionStatusSuccess is reported when the pipeline short-circuits
// without a vendor call; on a fetch the vendor's own status is passed
// through.
const connectionStatusSuccess = "Success"

// ProductFetcher is the vendor operation the pipeline depends on.
type ProductFetcher interface {
	FetchProductBase(ctx context.Context) (*keno.ProductBase, error)
}

// Pipeline produces the filtered, locale-normalized product payload for a
// resolved category ID set, reusing cached payloads within the TTL window.
type Pipeline struct {
	fetcher ProductFetcher
	store   *cache.Store
	ttl     time.Duration
	locale  string
	group   singleflight.Group
}

// NewPipeline creates a pipeline backed by fetcher and store. ttl governs
// payload reuse; prices and stock are volatile, so minute-scale values are
// appropriate.
func NewPipeline(fetcher ProductFetcher, store *cache.Store, ttl time.Duration, locale string) *Pipeline {
	if fetcher == nil {
		panic("product fetcher cannot be nil")
	}
	if store == nil {
		panic("cache store cannot be nil")
	}
	return &Pipeline{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
		locale:  locale,
	}
}

// Products returns the catalog payload for ids. cached reports whether the
// payload came from the cache without a vendor call.
//
// An empty ID set short-circuits to an empty success payload: nothing is
// fetched and nothing is cached. Cache identity is set identity: the key is
// stable under permutation and duplication of ids.
func (p *Pipeline) Products(ctx context.Context, ids []int64) (payload *keno.ProductBase, cached bool, err error) {
	if len(ids) == 0 {
		return &keno.ProductBase{
			ConnectionStatus: connectionStatusSuccess,
			ProductsBase:     []keno.RawProduct{},
		}, false, nil
	}

	key := cache.ProductKey(p.locale, ids)

	if entry, ok := p.store.GetFresh(key, p.ttl); ok {
		log.Debug().
			Str("key", key).
			Bool("cache_hit", true).
			Msg("Serving products from cache")
		return entry.Value.(*keno.ProductBase), true, nil
	}

	// Concurrent misses on one key coalesce into a single vendor call.
	v, err, _ := p.group.Do(key, func() (any, error) {
		if entry, ok := p.store.GetFresh(key, p.ttl); ok {
			return entry.Value, nil
		}

		// A failed fetch leaves the store untouched, so a prior good entry
		// keeps masking a vendor outage until it expires too.
		base, err := p.fetcher.FetchProductBase(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch product base: %w", err)
		}

		result := p.filter(base, ids)

		log.Debug().
			Str("key", key).
			Int("raw", len(base.ProductsBase)).
			Int("kept", len(result.ProductsBase)).
			Dur("ttl", p.ttl).
			Msg("Cached filtered products")

		p.store.Put(key, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.(*keno.ProductBase), false, nil
}

// filter keeps rows whose coerced subcategory_id is a member of ids, in
// their original relative order, locale-normalizing each kept row.
func (p *Pipeline) filter(base *keno.ProductBase, ids []int64) *keno.ProductBase {
	members := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}

	kept := make([]keno.RawProduct, 0)
	for _, row := range base.ProductsBase {
		id, ok := keno.CoerceID(row["subcategory_id"])
		if !ok {
			// Uncoercible category references match nothing.
			continue
		}
		if _, member := members[id]; !member {
			continue
		}
		kept = append(kept, normalizeLocale(row, p.locale))
	}

	return &keno.ProductBase{
		ConnectionStatus: base.ConnectionStatus,
		ProductsBase:     kept,
	}
}

// normalizeLocale returns a copy of row with description and
// long_description projected down to the locale's string, or nil when the
// field or locale entry is absent. The decoded row is never mutated.
func normalizeLocale(row keno.RawProduct, locale string) keno.RawProduct {
	out := make(keno.RawProduct, len(row))
	for k, v := range row {
		out[k] = v
	}
	out["description"] = localeString(row["description"], locale)
	out["long_description"] = localeString(row["long_description"], locale)
	return out
}

// localeString extracts the locale entry from a multi-locale text field.
func localeString(v any, locale string) any {
	texts, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	s, ok := texts[locale].(string)
	if !ok {
		return nil
	}
	return s
}
