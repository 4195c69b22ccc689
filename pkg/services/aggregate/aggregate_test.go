package aggregate

import (
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(year int, month time.Month, day int, product, category string, qty int64, amount string) domain.TransactionRecord {
	return domain.TransactionRecord{
		Date:     time.Date(year, month, day, 10, 0, 0, 0, time.UTC),
		Product:  product,
		Category: category,
		Brand:    "brand-" + product,
		Quantity: qty,
		Amount:   decimal.RequireFromString(amount),
	}
}

func fixture() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		rec(2024, time.March, 31, "B", "Drinks", 2, "20.50"),
		rec(2024, time.January, 1, "A", "Food", 1, "10"),
		rec(2024, time.January, 31, "B", "Drinks", 3, "30"),
		rec(2024, time.March, 1, "A", "Food", 4, "40.25"),
		rec(2023, time.December, 15, "A", "Food", 5, "50"),
		rec(2024, time.January, 15, "A", "Food", 2, "20"),
	}
}

func TestMonthly_WholeDataset(t *testing.T) {
	aggs := Monthly(fixture(), GroupByNone)

	require.Len(t, aggs, 3)
	assert.Equal(t, domain.MonthBucket{Year: 2023, Month: time.December}, aggs[0].Month)
	assert.Equal(t, domain.MonthBucket{Year: 2024, Month: time.January}, aggs[1].Month)
	assert.Equal(t, domain.MonthBucket{Year: 2024, Month: time.March}, aggs[2].Month)

	assert.Equal(t, "", aggs[1].Key)
	assert.Equal(t, "60", aggs[1].Revenue.String())
	assert.Equal(t, int64(6), aggs[1].Quantity)
	assert.Equal(t, int64(3), aggs[1].Count)
}

func TestMonthly_ByProductOrdersByMonthThenKey(t *testing.T) {
	aggs := Monthly(fixture(), GroupByProduct)

	var got []string
	for _, a := range aggs {
		got = append(got, a.Month.String()+"/"+a.Key)
	}
	assert.Equal(t, []string{"2023-12/A", "2024-01/A", "2024-01/B", "2024-03/A", "2024-03/B"}, got)
}

func TestMonthly_ConservesTotals(t *testing.T) {
	records := fixture()
	for _, g := range []GroupBy{GroupByNone, GroupByProduct, GroupByCategory, GroupByBrand} {
		t.Run(string(g), func(t *testing.T) {
			aggs := Monthly(records, g)

			revenue := decimal.Zero
			var qty, count int64
			for _, a := range aggs {
				revenue = revenue.Add(a.Revenue)
				qty += a.Quantity
				count += a.Count
			}
			summary := Summarize(records)
			assert.True(t, summary.Revenue.Equal(revenue))
			assert.Equal(t, summary.Quantity, qty)
			assert.Equal(t, int64(len(records)), count)
		})
	}
}

func TestMonthly_Empty(t *testing.T) {
	aggs := Monthly(nil, GroupByProduct)
	assert.NotNil(t, aggs)
	assert.Empty(t, aggs)

	s := Summarize(nil)
	assert.True(t, s.Revenue.IsZero())
	assert.Zero(t, s.Quantity)
	assert.Zero(t, s.Count)
}

func TestProductTotalsAndCategories(t *testing.T) {
	records := fixture()

	assert.Equal(t, []domain.ProductTotal{{Product: "A", Quantity: 12}, {Product: "B", Quantity: 5}}, ProductTotals(records))
	assert.Equal(t, []string{"Drinks", "Food"}, Categories(records))
}

func TestFilter(t *testing.T) {
	records := fixture()

	assert.Len(t, Filter(records, domain.AllCategories()), len(records))
	assert.Len(t, Filter(records, domain.Categories("Drinks")), 2)
	assert.Empty(t, Filter(records, domain.Categories()))
	assert.Empty(t, Filter(records, domain.CategoryFilter{}))
}

func TestSeries_GapPolicies(t *testing.T) {
	aggs := Monthly(fixture(), GroupByProduct)

	filled := Series(aggs, "B", domain.MetricQuantity, GapZeroFill)
	require.Len(t, filled, 3)
	assert.Equal(t, domain.SeriesPoint{Month: domain.MonthBucket{Year: 2024, Month: time.January}, Value: 3}, filled[0])
	assert.Equal(t, domain.SeriesPoint{Month: domain.MonthBucket{Year: 2024, Month: time.February}, Value: 0, Filled: true}, filled[1])
	assert.Equal(t, domain.SeriesPoint{Month: domain.MonthBucket{Year: 2024, Month: time.March}, Value: 2}, filled[2])

	assert.Equal(t, 2, domain.ObservedMonths(filled))

	omitted := Series(aggs, "B", domain.MetricQuantity, GapOmit)
	assert.Len(t, omitted, 2)
	assert.Equal(t, 2, domain.ObservedMonths(omitted))

	revenue := Series(aggs, "A", domain.MetricRevenue, GapZeroFill)
	require.Len(t, revenue, 4)
	assert.InDelta(t, 50.0, revenue[0].Value, 1e-9)
	assert.InDelta(t, 30.0, revenue[1].Value, 1e-9)
	assert.InDelta(t, 0.0, revenue[2].Value, 1e-9)
	assert.InDelta(t, 40.25, revenue[3].Value, 1e-9)
}

func TestSeriesByKey(t *testing.T) {
	series := SeriesByKey(Monthly(fixture(), GroupByProduct), domain.MetricQuantity, GapZeroFill)

	require.Len(t, series, 2)
	assert.Len(t, series["A"], 4)
	assert.Len(t, series["B"], 3)
}

func TestParsers(t *testing.T) {
	g, err := ParseGroupBy(" Product ")
	require.NoError(t, err)
	assert.Equal(t, GroupByProduct, g)
	_, err = ParseGroupBy("region")
	assert.Error(t, err)

	p, err := ParseGapPolicy("")
	require.NoError(t, err)
	assert.Equal(t, GapZeroFill, p)
	_, err = ParseGapPolicy("interpolate")
	assert.Error(t, err)

	m, err := ParseMetric("REVENUE")
	require.NoError(t, err)
	assert.Equal(t, domain.MetricRevenue, m)
}
