package match

import (
	"cmp"
	"slices"
	"strings"

	"astrie/internal/common"
)

// DefaultMaxDistance bounds how far a candidate may be from the wanted key
// to still be suggested.
const DefaultMaxDistance = 2

// Normalize folds an identifier for fuzzy comparison: words are split on
// separators and case transitions, lowercased and joined.
// "Order_ID", "orderId" and "order-id" all normalize to "orderid".
func Normalize(s string) string {
	return strings.ToLower(strings.Join(common.Words(s), ""))
}

// Suggest returns the candidates within maxDistance edits of key, closest
// first, ties broken alphabetically. A candidate that only differs from key by
// casing or separators has distance 0. Exact matches are not suggested.
func Suggest(key string, candidates []string, maxDistance int) []string {
	type scored struct {
		name string
		dist int
	}

	want := Normalize(key)

	var hits []scored

	for _, c := range candidates {
		if c == key {
			continue
		}

		d := Levenshtein(want, Normalize(c))
		if d <= maxDistance {
			hits = append(hits, scored{name: c, dist: d})
		}
	}

	slices.SortFunc(hits, func(a, b scored) int {
		return cmp.Or(cmp.Compare(a.dist, b.dist), cmp.Compare(a.name, b.name))
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}

	return out
}
