package forecast

import (
	"context"
	"math"
)

// Linear extrapolates an ordinary least squares trend line.
type Linear struct {
	confidence float64
}

func NewLinear(confidence float64) *Linear {
	return &Linear{confidence: confidence}
}

func (l *Linear) Name() string { return "linear" }

func (l *Linear) FitPredict(_ context.Context, values []float64, horizon int) ([]Prediction, error) {
	if err := validConfidence(l.confidence); err != nil {
		return nil, err
	}
	n := len(values)
	if n < 2 {
		return nil, ErrTooShort
	}

	xMean := float64(n-1) / 2
	yMean := mean(values)
	sxx, sxy := 0.0, 0.0
	for i, y := range values {
		dx := float64(i) - xMean
		sxx += dx * dx
		sxy += dx * (y - yMean)
	}
	slope := sxy / sxx
	intercept := yMean - slope*xMean

	sse := 0.0
	for i, y := range values {
		e := y - (intercept + slope*float64(i))
		sse += e * e
	}
	sigma := residualSigma(sse, n-2)
	z := zScore(l.confidence)

	predictions := make([]Prediction, horizon)
	for step := 1; step <= horizon; step++ {
		x := float64(n - 1 + step)
		se := sigma * math.Sqrt(1+1/float64(n)+(x-xMean)*(x-xMean)/sxx)
		predictions[step-1] = band(intercept+slope*x, z*se)
	}
	return predictions, nil
}
