// Package ranking orders products by cumulative quantity.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// TopN returns at most n products ordered by descending quantity, ties broken
// by ascending product identifier. totals is not modified.
func TopN(totals []domain.ProductTotal, n int) domain.ProductRanking {
	if n <= 0 || len(totals) == 0 {
		return domain.ProductRanking{}
	}

	ranked := slices.Clone(totals)
	slices.SortFunc(ranked, func(a, b domain.ProductTotal) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return strings.Compare(a.Product, b.Product)
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return domain.ProductRanking(ranked[:n:n])
}
