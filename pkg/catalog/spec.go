package catalog

import (
	"fmt"
	"strings"
)

// MatchSpec selects category IDs from the vendor catalog. Two variants
// exist: FixedIDs names the IDs outright, NameSubstring matches category
// names case-insensitively against the fetched tree.
type MatchSpec interface {
	fmt.Stringer

	// resolve selects deduplicated category IDs from the flattened tree.
	// categories is nil for specs that do not need the tree.
	resolve(categories []FlatCategory) []int64

	// needsTree reports whether resolution requires the category tree.
	needsTree() bool
}

// FixedIDs is a match spec naming category IDs verbatim.
type FixedIDs []int64

func (s FixedIDs) resolve(_ []FlatCategory) []int64 {
	seen := make(map[int64]struct{}, len(s))
	ids := make([]int64, 0, len(s))
	for _, id := range s {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (s FixedIDs) needsTree() bool { return false }

func (s FixedIDs) String() string {
	return fmt.Sprintf("ids%v", []int64(s))
}

// NameSubstring is a match spec selecting every category whose name,
// case-folded, contains the case-folded substring.
type NameSubstring string

func (s NameSubstring) resolve(categories []FlatCategory) []int64 {
	needle := strings.ToLower(string(s))
	seen := make(map[int64]struct{})
	var ids []int64
	for _, cat := range categories {
		if !strings.Contains(strings.ToLower(cat.Name), needle) {
			continue
		}
		if _, dup := seen[cat.ID]; dup {
			continue
		}
		seen[cat.ID] = struct{}{}
		ids = append(ids, cat.ID)
	}
	return ids
}

func (s NameSubstring) needsTree() bool { return true }

func (s NameSubstring) String() string {
	return fmt.Sprintf("name~%q", string(s))
}
