package domain

type ForecastStatus string

const (
	ForecastStatusFitted              ForecastStatus = "fitted"
	ForecastStatusInsufficientHistory ForecastStatus = "insufficient_history"
)

// OverallSubject names the whole-dataset series.
const OverallSubject = "overall"

type SeriesPoint struct {
	Month  MonthBucket
	Value  float64
	Filled bool // inserted for a month without sales
}

// ObservedMonths counts the points that carry real sales.
func ObservedMonths(history []SeriesPoint) int {
	n := 0
	for _, p := range history {
		if !p.Filled {
			n++
		}
	}
	return n
}

type ForecastPoint struct {
	Month    MonthBucket
	Estimate float64
	Lower    float64
	Upper    float64
}

type ForecastResult struct {
	Subject string // "overall" or a product identifier
	History []SeriesPoint
	Horizon []ForecastPoint
	Status  ForecastStatus
	Method  string // capability name, "holt"
	Reason  string // why no forecast was produced
}

func (r ForecastResult) Fitted() bool {
	return r.Status == ForecastStatusFitted
}

// ExpectedAverage is the mean point estimate over the horizon.
func (r ForecastResult) ExpectedAverage() (float64, bool) {
	if len(r.Horizon) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range r.Horizon {
		sum += p.Estimate
	}
	return sum / float64(len(r.Horizon)), true
}
