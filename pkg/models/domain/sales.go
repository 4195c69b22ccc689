package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one untyped row of an uploaded table, keyed by column header.
type RawRow map[string]any

type TransactionRecord struct {
	Date     time.Time
	Product  string          // "Indomie Goreng"
	Category string          // "Makanan"
	Brand    string          // "Indofood"
	Quantity int64           // 12
	Amount   decimal.Decimal // 36000.00
}

// MonthBucket is a calendar (year, month) key.
type MonthBucket struct {
	Year  int
	Month time.Month
}

// BucketOf truncates t to its calendar month.
func BucketOf(t time.Time) MonthBucket {
	return MonthBucket{Year: t.Year(), Month: t.Month()}
}

func (b MonthBucket) index() int {
	return b.Year*12 + int(b.Month) - 1
}

func bucketFromIndex(i int) MonthBucket {
	return MonthBucket{Year: i / 12, Month: time.Month(i%12 + 1)}
}

// Compare returns -1, 0 or 1 depending on chronological order.
func (b MonthBucket) Compare(other MonthBucket) int {
	switch d := b.index() - other.index(); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func (b MonthBucket) Before(other MonthBucket) bool {
	return b.Compare(other) < 0
}

// AddMonths returns the bucket n months later (earlier when n is negative).
func (b MonthBucket) AddMonths(n int) MonthBucket {
	return bucketFromIndex(b.index() + n)
}

func (b MonthBucket) Next() MonthBucket {
	return b.AddMonths(1)
}

// MonthsUntil returns the number of months from b to other.
func (b MonthBucket) MonthsUntil(other MonthBucket) int {
	return other.index() - b.index()
}

// Start returns the first instant of the month in UTC.
func (b MonthBucket) Start() time.Time {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (b MonthBucket) IsZero() bool {
	return b.Year == 0 && b.Month == 0
}

func (b MonthBucket) String() string {
	return fmt.Sprintf("%04d-%02d", b.Year, int(b.Month))
}

type MonthlyAggregate struct {
	Month    MonthBucket
	Key      string // empty for the whole-dataset grain
	Revenue  decimal.Decimal
	Quantity int64
	Count    int64
}

type Summary struct {
	Revenue  decimal.Decimal
	Quantity int64
	Count    int64
}

type ProductTotal struct {
	Product  string
	Quantity int64
}

// ProductRanking is ordered by descending quantity, then ascending product.
type ProductRanking []ProductTotal

func (r ProductRanking) Products() []string {
	products := make([]string, len(r))
	for i, p := range r {
		products[i] = p.Product
	}
	return products
}

// Rejection records why a raw row was excluded from all aggregates.
type Rejection struct {
	Row    int // zero-based index into the input rows
	Reason string
}

type NormalizeResult struct {
	Records    []TransactionRecord
	Rejected   int
	Rejections []Rejection
}

// CategoryFilter selects records by category. The zero value passes nothing;
// use AllCategories for the unfiltered view.
type CategoryFilter struct {
	all bool
	set map[string]struct{}
}

func AllCategories() CategoryFilter {
	return CategoryFilter{all: true}
}

func Categories(names ...string) CategoryFilter {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return CategoryFilter{set: set}
}

func (f CategoryFilter) IsAll() bool {
	return f.all
}

func (f CategoryFilter) Allows(category string) bool {
	if f.all {
		return true
	}
	_, ok := f.set[category]
	return ok
}

func (f CategoryFilter) Names() []string {
	names := make([]string, 0, len(f.set))
	for n := range f.set {
		names = append(names, n)
	}
	return names
}

// Table is a fully materialised input dataset.
type Table struct {
	Columns []string // header order as read; may be empty for map-built tables
	Rows    []RawRow
}

// Headers returns Columns, or the union of row keys when Columns is empty.
func (t Table) Headers() []string {
	if len(t.Columns) > 0 {
		return t.Columns
	}
	seen := make(map[string]struct{})
	var headers []string
	for _, row := range t.Rows {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				headers = append(headers, k)
			}
		}
	}
	return headers
}
