package catalog

import (
	"github.com/keno-tools/catalog-proxy/pkg/keno"
)

// Summarize counts products by coerced category ID. Rows without a
// coercible subcategory_id are skipped. Pure reporting helper for the
// observability layer; the pipeline itself never calls it.
func Summarize(products []keno.RawProduct) map[int64]int {
	counts := make(map[int64]int)
	for _, row := range products {
		id, ok := keno.CoerceID(row["subcategory_id"])
		if !ok {
			continue
		}
		counts[id]++
	}
	return counts
}
