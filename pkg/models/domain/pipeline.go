package domain

type Metric string

const (
	MetricQuantity Metric = "quantity"
	MetricRevenue  Metric = "revenue"
)

type PipelineResult struct {
	RunID          string
	Metric         Metric
	Summary        Summary
	Monthly        []MonthlyAggregate
	ProductMonthly []MonthlyAggregate
	BreakdownBy    string             // dimension keying Breakdown
	Breakdown      []MonthlyAggregate // monthly totals per BreakdownBy value
	Ranking        ProductRanking
	ProductTotals  []ProductTotal
	Categories     []string // every category present before filtering
	Overall        ForecastResult
	Products       []ForecastResult // one per ranked product, same order
	InputRows      int
	Rejected       int
	Rejections     []Rejection
}
