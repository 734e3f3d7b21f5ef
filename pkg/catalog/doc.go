// Package catalog implements the resolution-and-caching pipeline of the
// proxy: turning a match spec into concrete category IDs against the cached
// vendor category tree, and producing the filtered, locale-normalized
// product payload with TTL-based reuse.
//
// # Basic Usage
//
//	store := cache.NewStore()
//
//	resolver := catalog.NewResolver(client, store, time.Hour, "lt")
//	pipeline := catalog.NewPipeline(client, store, 10*time.Minute, "lt")
//
//	ids, err := resolver.Resolve(ctx, catalog.NameSubstring("Storage"))
//	if err != nil {
//		return err
//	}
//
//	payload, cached, err := pipeline.Products(ctx, ids)
//
// The category tree is cached with a long TTL (categories change rarely),
// the product payload with a short one (prices and stock are volatile).
// Concurrent misses on one key coalesce into a single vendor call.
//
// An empty resolved ID set is a valid outcome, not an error: the pipeline
// short-circuits to an empty payload without calling the vendor.
package catalog
