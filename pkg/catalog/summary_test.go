package catalog

import (
	"reflect"
	"testing"

	"github.com/keno-tools/catalog-proxy/pkg/keno"
)

func TestSummarize(t *testing.T) {
	products := []keno.RawProduct{
		{"index": "A", "subcategory_id": float64(78)},
		{"index": "B", "subcategory_id": "78"},
		{"index": "C", "subcategory_id": float64(101)},
		{"index": "D", "subcategory_id": "junk"},
		{"index": "E"},
	}

	got := Summarize(products)
	want := map[int64]int{78: 2, 101: 1}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize = %v, want %v", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); len(got) != 0 {
		t.Errorf("Summarize(nil) = %v, want empty", got)
	}
}
