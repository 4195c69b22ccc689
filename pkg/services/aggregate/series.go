package aggregate

import (
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// GapPolicy decides how calendar months without sales appear in a series.
type GapPolicy string

const (
	// GapZeroFill inserts zero-valued months between the first and last month of a series.
	GapZeroFill GapPolicy = "zero-fill"
	// GapOmit keeps only months with sales.
	GapOmit GapPolicy = "omit"
)

func ParseGapPolicy(s string) (GapPolicy, error) {
	switch p := GapPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case GapZeroFill, GapOmit:
		return p, nil
	case "":
		return GapZeroFill, nil
	default:
		return "", fmt.Errorf("unsupported gap policy %q", s)
	}
}

func ParseMetric(s string) (domain.Metric, error) {
	switch m := domain.Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case domain.MetricQuantity, domain.MetricRevenue:
		return m, nil
	case "":
		return domain.MetricQuantity, nil
	default:
		return "", fmt.Errorf("unsupported metric %q", s)
	}
}

func value(agg domain.MonthlyAggregate, metric domain.Metric) float64 {
	if metric == domain.MetricRevenue {
		return agg.Revenue.InexactFloat64()
	}
	return float64(agg.Quantity)
}

// Series extracts the chronological series of aggs whose Key equals key.
// aggs must be ordered by month as returned by Monthly.
func Series(aggs []domain.MonthlyAggregate, key string, metric domain.Metric, gap GapPolicy) []domain.SeriesPoint {
	var series []domain.SeriesPoint
	for _, agg := range aggs {
		if agg.Key != key {
			continue
		}
		if gap == GapZeroFill && len(series) > 0 {
			next := series[len(series)-1].Month.Next()
			for next.Before(agg.Month) {
				series = append(series, domain.SeriesPoint{Month: next, Filled: true})
				next = next.Next()
			}
		}
		series = append(series, domain.SeriesPoint{Month: agg.Month, Value: value(agg, metric)})
	}
	return series
}

// SeriesByKey splits keyed aggregates into one series per key in a single pass.
func SeriesByKey(aggs []domain.MonthlyAggregate, metric domain.Metric, gap GapPolicy) map[string][]domain.SeriesPoint {
	grouped := make(map[string][]domain.MonthlyAggregate)
	for _, agg := range aggs {
		grouped[agg.Key] = append(grouped[agg.Key], agg)
	}

	result := make(map[string][]domain.SeriesPoint, len(grouped))
	for key, group := range grouped {
		result[key] = Series(group, key, metric, gap)
	}
	return result
}
