package adapters

import (
	"fmt"
	"strconv"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

func unitOf(m domain.Metric) string {
	if m == domain.MetricRevenue {
		return "revenue"
	}
	return "units"
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// MapPipelineResultToReport lays a pipeline result out as report sections for
// the terminal reporters.
func MapPipelineResultToReport(r domain.PipelineResult, currency string) *domain.Report {
	report := &domain.Report{
		Title:       "Sales Analysis",
		Period:      PeriodOf(r.Monthly),
		TotalAmount: r.Summary.Revenue.StringFixed(2),
		Currency:    currency,
	}

	report.Sections = append(report.Sections, domain.ReportSection{
		Title: "Summary",
		Summary: map[string]any{
			"Run":        r.RunID,
			"Categories": len(r.Categories),
		},
		Details: []domain.ReportDetail{
			{Name: "Revenue", Value: r.Summary.Revenue.StringFixed(2), Unit: currency},
			{Name: "Quantity", Value: r.Summary.Quantity, Unit: "units"},
			{Name: "Transactions", Value: r.Summary.Count},
			{Name: "Input rows", Value: r.InputRows},
			{Name: "Rejected rows", Value: r.Rejected, Description: rejectionHint(r)},
		},
	})

	monthly := domain.ReportSection{Title: "Monthly Sales"}
	for _, m := range r.Monthly {
		monthly.Details = append(monthly.Details, domain.ReportDetail{
			Name:        m.Month.String(),
			Value:       m.Quantity,
			Unit:        "units",
			Description: fmt.Sprintf("revenue %s from %d transactions", m.Revenue.StringFixed(2), m.Count),
		})
	}
	report.Sections = append(report.Sections, monthly)

	ranking := domain.ReportSection{Title: fmt.Sprintf("Top %d Products", len(r.Ranking))}
	for i, p := range r.Ranking {
		ranking.Details = append(ranking.Details, domain.ReportDetail{
			Name:        p.Product,
			Value:       p.Quantity,
			Unit:        "units",
			Description: fmt.Sprintf("rank %d", i+1),
		})
	}
	report.Sections = append(report.Sections, ranking)

	report.Sections = append(report.Sections, forecastSection(r.Overall, r.Metric))
	for _, f := range r.Products {
		report.Sections = append(report.Sections, forecastSection(f, r.Metric))
	}
	return report
}

func forecastSection(f domain.ForecastResult, metric domain.Metric) domain.ReportSection {
	section := domain.ReportSection{
		Title: fmt.Sprintf("Forecast: %s", f.Subject),
		Summary: map[string]any{
			"Status":  f.Status,
			"Method":  f.Method,
			"History": fmt.Sprintf("%d months", len(f.History)),
		},
	}
	if !f.Fitted() {
		section.Summary["Reason"] = f.Reason
		return section
	}
	if avg, ok := f.ExpectedAverage(); ok {
		section.Summary["Expected average"] = formatValue(avg)
	}
	for _, p := range f.Horizon {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        p.Month.String(),
			Value:       formatValue(p.Estimate),
			Unit:        unitOf(metric),
			Description: fmt.Sprintf("interval %s to %s", formatValue(p.Lower), formatValue(p.Upper)),
		})
	}
	return section
}

func rejectionHint(r domain.PipelineResult) string {
	if len(r.Rejections) == 0 {
		return ""
	}
	first := r.Rejections[0]
	return fmt.Sprintf("first at row %d: %s", first.Row+1, first.Reason)
}
