// Package aggregate buckets transaction records by calendar month.
package aggregate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// GroupBy selects the secondary dimension combined with the month bucket.
type GroupBy string

const (
	GroupByNone     GroupBy = "none"
	GroupByProduct  GroupBy = "product"
	GroupByCategory GroupBy = "category"
	GroupByBrand    GroupBy = "brand"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case GroupByNone, GroupByProduct, GroupByCategory, GroupByBrand:
		return g, nil
	case "":
		return GroupByNone, nil
	default:
		return "", fmt.Errorf("unsupported group by %q", s)
	}
}

func (g GroupBy) key(r domain.TransactionRecord) string {
	switch g {
	case GroupByProduct:
		return r.Product
	case GroupByCategory:
		return r.Category
	case GroupByBrand:
		return r.Brand
	default:
		return ""
	}
}

type bucketKey struct {
	month domain.MonthBucket
	key   string
}

// Monthly sums revenue, quantity and count per (month, group key) in one pass.
// Output is ordered by month, then key.
func Monthly(records []domain.TransactionRecord, groupBy GroupBy) []domain.MonthlyAggregate {
	buckets := make(map[bucketKey]*domain.MonthlyAggregate)
	for _, r := range records {
		k := bucketKey{month: domain.BucketOf(r.Date), key: groupBy.key(r)}
		agg, ok := buckets[k]
		if !ok {
			agg = &domain.MonthlyAggregate{Month: k.month, Key: k.key, Revenue: decimal.Zero}
			buckets[k] = agg
		}
		agg.Revenue = agg.Revenue.Add(r.Amount)
		agg.Quantity += r.Quantity
		agg.Count++
	}

	result := make([]domain.MonthlyAggregate, 0, len(buckets))
	for _, agg := range buckets {
		result = append(result, *agg)
	}
	slices.SortFunc(result, func(a, b domain.MonthlyAggregate) int {
		if c := a.Month.Compare(b.Month); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return result
}

// Summarize totals the records.
func Summarize(records []domain.TransactionRecord) domain.Summary {
	s := domain.Summary{Revenue: decimal.Zero}
	for _, r := range records {
		s.Revenue = s.Revenue.Add(r.Amount)
		s.Quantity += r.Quantity
		s.Count++
	}
	return s
}

// ProductTotals returns cumulative quantity per product, ordered by product.
func ProductTotals(records []domain.TransactionRecord) []domain.ProductTotal {
	totals := make(map[string]int64)
	for _, r := range records {
		totals[r.Product] += r.Quantity
	}

	result := make([]domain.ProductTotal, 0, len(totals))
	for p, q := range totals {
		result = append(result, domain.ProductTotal{Product: p, Quantity: q})
	}
	slices.SortFunc(result, func(a, b domain.ProductTotal) int {
		return strings.Compare(a.Product, b.Product)
	})
	return result
}

// Categories returns the distinct categories in ascending order.
func Categories(records []domain.TransactionRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	slices.Sort(categories)
	return categories
}

// Filter keeps the records whose category passes f.
func Filter(records []domain.TransactionRecord, f domain.CategoryFilter) []domain.TransactionRecord {
	if f.IsAll() {
		return records
	}
	kept := make([]domain.TransactionRecord, 0, len(records))
	for _, r := range records {
		if f.Allows(r.Category) {
			kept = append(kept, r)
		}
	}
	return kept
}
