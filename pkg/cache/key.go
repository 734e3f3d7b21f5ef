package cache

import (
	"sort"
	"strconv"
	"strings"
)

// Cache keys are deterministic strings with a shared "keno" prefix, parts
// joined by ":". Two requests that are equivalent for caching purposes must
// derive the same key, so anything set-valued is sorted and deduplicated
// before serialization.

// CategoryTreeKey returns the key under which the flattened category tree
// for one locale is stored.
func CategoryTreeKey(locale string) string {
	return strings.Join([]string{"keno", "categories", locale}, ":")
}

// ProductKey returns the key for the filtered product payload of one
// resolved category ID set in one locale. The key is stable under
// permutation and duplication of ids: set equality, not sequence equality,
// defines cache identity.
func ProductKey(locale string, ids []int64) string {
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, 0, len(sorted)+3)
	parts = append(parts, "keno", "products", locale)

	var prev int64
	for i, id := range sorted {
		if i > 0 && id == prev {
			continue
		}
		parts = append(parts, strconv.FormatInt(id, 10))
		prev = id
	}

	return strings.Join(parts, ":")
}
