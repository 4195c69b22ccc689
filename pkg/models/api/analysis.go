package api

type TimePeriod struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration_months"`
}

type Summary struct {
	Revenue      string `json:"revenue"`
	Quantity     int64  `json:"quantity"`
	Transactions int64  `json:"transactions"`
}

type MonthlyAggregate struct {
	Month        string `json:"month"`
	Key          string `json:"key,omitempty"`
	Revenue      string `json:"revenue"`
	Quantity     int64  `json:"quantity"`
	Transactions int64  `json:"transactions"`
}

type ProductTotal struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

type SeriesPoint struct {
	Month  string  `json:"month"`
	Value  float64 `json:"value"`
	Filled bool    `json:"filled,omitempty"`
}

type ForecastPoint struct {
	Month    string  `json:"month"`
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

type Forecast struct {
	Subject         string          `json:"subject"`
	Status          string          `json:"status"`
	Method          string          `json:"method"`
	Reason          string          `json:"reason,omitempty"`
	History         []SeriesPoint   `json:"history"`
	Horizon         []ForecastPoint `json:"horizon"`
	ExpectedAverage *float64        `json:"expected_average,omitempty"`
}

type Rejection struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type AnalysisReport struct {
	RunID          string             `json:"run_id"`
	Metric         string             `json:"metric"`
	Period         TimePeriod         `json:"period"`
	Summary        Summary            `json:"summary"`
	Categories     []string           `json:"categories"`
	Monthly        []MonthlyAggregate `json:"monthly"`
	ProductMonthly []MonthlyAggregate `json:"product_monthly"`
	BreakdownBy    string             `json:"breakdown_by"`
	Breakdown      []MonthlyAggregate `json:"breakdown_monthly"`
	Ranking        []ProductTotal     `json:"ranking"`
	Stock          []ProductTotal     `json:"stock"`
	Overall        Forecast           `json:"overall_forecast"`
	Products       []Forecast         `json:"product_forecasts"`
	InputRows      int                `json:"input_rows"`
	Rejected       int                `json:"rejected"`
	Rejections     []Rejection        `json:"rejections"`
}

type ForecasterList struct {
	Default     string   `json:"default"`
	Forecasters []string `json:"forecasters"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing_columns,omitempty"`
}
