package adapters

import (
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// PeriodOf spans the first to the last month of the monthly series.
func PeriodOf(monthly []domain.MonthlyAggregate) domain.TimePeriod {
	if len(monthly) == 0 {
		return domain.TimePeriod{}
	}
	start, end := monthly[0].Month, monthly[len(monthly)-1].Month
	return domain.TimePeriod{Start: start, End: end, Duration: start.MonthsUntil(end) + 1}
}

func MapTimePeriodDomainToApi(p domain.TimePeriod) api.TimePeriod {
	if p.Duration == 0 {
		return api.TimePeriod{}
	}
	return api.TimePeriod{
		Start:    p.Start.String(),
		End:      p.End.String(),
		Duration: p.Duration,
	}
}

func MapMonthlyAggregatesDomainToApi(aggs []domain.MonthlyAggregate) []api.MonthlyAggregate {
	res := make([]api.MonthlyAggregate, 0, len(aggs))
	for _, a := range aggs {
		res = append(res, api.MonthlyAggregate{
			Month:        a.Month.String(),
			Key:          a.Key,
			Revenue:      a.Revenue.StringFixed(2),
			Quantity:     a.Quantity,
			Transactions: a.Count,
		})
	}
	return res
}

func MapProductTotalsDomainToApi(totals []domain.ProductTotal) []api.ProductTotal {
	res := make([]api.ProductTotal, 0, len(totals))
	for _, t := range totals {
		res = append(res, api.ProductTotal{Product: t.Product, Quantity: t.Quantity})
	}
	return res
}

func MapForecastDomainToApi(f domain.ForecastResult) api.Forecast {
	res := api.Forecast{
		Subject: f.Subject,
		Status:  string(f.Status),
		Method:  f.Method,
		Reason:  f.Reason,
		History: make([]api.SeriesPoint, 0, len(f.History)),
		Horizon: make([]api.ForecastPoint, 0, len(f.Horizon)),
	}
	for _, p := range f.History {
		res.History = append(res.History, api.SeriesPoint{Month: p.Month.String(), Value: p.Value, Filled: p.Filled})
	}
	for _, p := range f.Horizon {
		res.Horizon = append(res.Horizon, api.ForecastPoint{
			Month:    p.Month.String(),
			Estimate: p.Estimate,
			Lower:    p.Lower,
			Upper:    p.Upper,
		})
	}
	if avg, ok := f.ExpectedAverage(); ok {
		res.ExpectedAverage = &avg
	}
	return res
}

func MapPipelineResultDomainToApi(r domain.PipelineResult) api.AnalysisReport {
	res := api.AnalysisReport{
		RunID:  r.RunID,
		Metric: string(r.Metric),
		Period: MapTimePeriodDomainToApi(PeriodOf(r.Monthly)),
		Summary: api.Summary{
			Revenue:      r.Summary.Revenue.StringFixed(2),
			Quantity:     r.Summary.Quantity,
			Transactions: r.Summary.Count,
		},
		Categories:     append([]string{}, r.Categories...),
		Monthly:        MapMonthlyAggregatesDomainToApi(r.Monthly),
		ProductMonthly: MapMonthlyAggregatesDomainToApi(r.ProductMonthly),
		BreakdownBy:    r.BreakdownBy,
		Breakdown:      MapMonthlyAggregatesDomainToApi(r.Breakdown),
		Ranking:        MapProductTotalsDomainToApi(r.Ranking),
		Stock:          MapProductTotalsDomainToApi(r.ProductTotals),
		Overall:        MapForecastDomainToApi(r.Overall),
		Products:       make([]api.Forecast, 0, len(r.Products)),
		InputRows:      r.InputRows,
		Rejected:       r.Rejected,
		Rejections:     make([]api.Rejection, 0, len(r.Rejections)),
	}
	for _, f := range r.Products {
		res.Products = append(res.Products, MapForecastDomainToApi(f))
	}
	for _, rej := range r.Rejections {
		res.Rejections = append(res.Rejections, api.Rejection{Row: rej.Row, Reason: rej.Reason})
	}
	return res
}
