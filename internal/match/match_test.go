package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
		{"yml", "yaml", 1},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "orderid", Normalize("OrderID"))
	assert.Equal(t, "orderid", Normalize("order_id"))
	assert.Equal(t, "orderid", Normalize("order-id"))
	assert.Equal(t, "", Normalize(""))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 1.0, Similarity("OrderID", "order_id"), 0.001)
	assert.InDelta(t, 1.0-3.0/7.0, Similarity("kitten", "sitting"), 0.001)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 0.001)
}

func TestSuggest(t *testing.T) {
	keys := []string{"go", "h", "json", "proto", "py", "rs", "toml", "ts", "yaml"}

	assert.Equal(t, []string{"json"}, Suggest("jsn", keys, DefaultMaxDistance)[:1])
	assert.Equal(t, []string{"yaml"}, Suggest("yml", keys, 1))
	assert.Equal(t, []string{"proto"}, Suggest("protoo", keys, 1))
	assert.Empty(t, Suggest("cobol", keys, 1))
	assert.Empty(t, Suggest("json", []string{"json"}, DefaultMaxDistance), "exact match is not a suggestion")
}

func TestSuggest_OrdersByDistanceThenName(t *testing.T) {
	got := Suggest("ts", []string{"rs", "ts2", "js", "tsx"}, 1)
	assert.Equal(t, []string{"js", "rs", "ts2", "tsx"}, got)
}
