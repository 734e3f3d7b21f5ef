package catalog

import (
	"github.com/keno-tools/catalog-proxy/pkg/keno"
)

// FlatCategory is one node of the flattened category tree: the node's ID and
// name plus the ID of its immediate parent (nil at roots).
type FlatCategory struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Parent *int64 `json:"parent"`
}

// Flatten walks the vendor category forest depth-first and records every
// node, root or nested, in traversal order. Parent assignment comes from the
// traversal itself, so the result is consistent even when the vendor's own
// parent_id fields are not.
func Flatten(roots []keno.CategoryNode) []FlatCategory {
	var flat []FlatCategory

	var walk func(node keno.CategoryNode, parent *int64)
	walk = func(node keno.CategoryNode, parent *int64) {
		id := int64(node.ID)
		flat = append(flat, FlatCategory{
			ID:     id,
			Name:   node.Name,
			Parent: parent,
		})
		for _, child := range node.Children {
			walk(child, &id)
		}
	}

	for _, root := range roots {
		walk(root, nil)
	}

	return flat
}
