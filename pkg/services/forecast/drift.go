package forecast

import (
	"context"
	"math"
)

// Drift is a random walk with drift, equivalent to ARIMA(0,1,0) with an intercept.
type Drift struct {
	confidence float64
}

func NewDrift(confidence float64) *Drift {
	return &Drift{confidence: confidence}
}

func (d *Drift) Name() string { return "drift" }

func (d *Drift) FitPredict(_ context.Context, values []float64, horizon int) ([]Prediction, error) {
	if err := validConfidence(d.confidence); err != nil {
		return nil, err
	}
	n := len(values)
	if n < 2 {
		return nil, ErrTooShort
	}

	last := values[n-1]
	slope := (last - values[0]) / float64(n-1)

	sse := 0.0
	for t := 1; t < n; t++ {
		e := values[t] - values[t-1] - slope
		sse += e * e
	}
	sigma := residualSigma(sse, n-2)
	z := zScore(d.confidence)

	predictions := make([]Prediction, horizon)
	for step := 1; step <= horizon; step++ {
		h := float64(step)
		se := sigma * math.Sqrt(h*(1+h/float64(n-1)))
		predictions[step-1] = band(last+h*slope, z*se)
	}
	return predictions, nil
}
