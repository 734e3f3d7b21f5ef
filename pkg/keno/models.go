package keno

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is a category identifier that unmarshals from either a JSON number
// or a numeric string. The vendor is not consistent about which one it sends.
type FlexID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("category id %q is not an integer: %w", s, err)
	}
	*id = FlexID(n)
	return nil
}

// CategoryNode is one node of the vendor category tree.
type CategoryNode struct {
	ID       FlexID         `json:"id"`
	Name     string         `json:"name"`
	ParentID *FlexID        `json:"parent_id,omitempty"`
	Children []CategoryNode `json:"categories,omitempty"`
}

// RawProduct is one row of the vendor product base. The vendor schema is
// wide and loosely typed, so rows stay generic JSON objects; only the few
// fields this service inspects are accessed by key.
type RawProduct map[string]any

// ProductBase is the decoded GetProductBase payload. It doubles as the
// filtered response shape, so a cached value needs no re-encoding.
type ProductBase struct {
	ConnectionStatus string       `json:"connection_status"`
	ProductsBase     []RawProduct `json:"products_base"`
}

// CoerceID converts a loosely typed vendor category reference to an integer
// ID. Accepted inputs are JSON numbers (float64 after decoding), numeric
// strings, and json.Number. Anything else, including fractional numbers and
// non-numeric strings, reports false: a row that cannot be coerced is
// treated as matching no category rather than as an error.
func CoerceID(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		n := int64(x)
		if float64(n) != x {
			return 0, false
		}
		return n, true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
