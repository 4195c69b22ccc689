package forecast

import (
	"context"
	"math"
)

// DefaultMovingAverageWindow is the number of trailing months averaged.
const DefaultMovingAverageWindow = 3

// MovingAverage predicts the trailing mean for every future month.
type MovingAverage struct {
	confidence float64
	window     int
}

func NewMovingAverage(confidence float64, window int) *MovingAverage {
	if window <= 0 {
		window = DefaultMovingAverageWindow
	}
	return &MovingAverage{confidence: confidence, window: window}
}

func (m *MovingAverage) Name() string { return "moving-average" }

func (m *MovingAverage) FitPredict(_ context.Context, values []float64, horizon int) ([]Prediction, error) {
	if err := validConfidence(m.confidence); err != nil {
		return nil, err
	}
	w := min(m.window, len(values))
	if w == 0 {
		return nil, ErrTooShort
	}

	sse := 0.0
	n := 0
	for t := w; t < len(values); t++ {
		e := values[t] - mean(values[t-w:t])
		sse += e * e
		n++
	}
	sigma := residualSigma(sse, n)
	estimate := mean(values[len(values)-w:])
	z := zScore(m.confidence)

	predictions := make([]Prediction, horizon)
	for step := 1; step <= horizon; step++ {
		predictions[step-1] = band(estimate, z*sigma*math.Sqrt(float64(step)))
	}
	return predictions, nil
}
