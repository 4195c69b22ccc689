package forecast

import (
	"context"
	"math"
)

// Holt is linear-trend exponential smoothing. Smoothing weights are chosen by
// grid search over the one-step-ahead sum of squared errors.
type Holt struct {
	confidence float64
	grid       []float64
}

func NewHolt(confidence float64) *Holt {
	grid := make([]float64, 0, 19)
	for i := 1; i <= 19; i++ {
		grid = append(grid, float64(i)*0.05)
	}
	return &Holt{confidence: confidence, grid: grid}
}

func (h *Holt) Name() string { return "holt" }

type holtFit struct {
	alpha, beta  float64
	level, trend float64
	sse          float64
	errors       int
}

func (h *Holt) FitPredict(ctx context.Context, values []float64, horizon int) ([]Prediction, error) {
	if err := validConfidence(h.confidence); err != nil {
		return nil, err
	}
	if len(values) < 3 {
		return nil, ErrTooShort
	}

	best := holtFit{sse: math.Inf(1)}
	for _, alpha := range h.grid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, beta := range h.grid {
			fit := smooth(values, alpha, beta)
			if fit.sse < best.sse {
				best = fit
			}
		}
	}
	if math.IsInf(best.sse, 0) || math.IsNaN(best.sse) {
		return nil, ErrNonFinite
	}

	sigma := residualSigma(best.sse, best.errors-2)
	z := zScore(h.confidence)

	predictions := make([]Prediction, horizon)
	variance := 1.0
	for step := 1; step <= horizon; step++ {
		if step > 1 {
			c := best.alpha * (1 + float64(step-1)*best.beta)
			variance += c * c
		}
		estimate := best.level + float64(step)*best.trend
		predictions[step-1] = band(estimate, z*sigma*math.Sqrt(variance))
	}
	return predictions, nil
}

func smooth(values []float64, alpha, beta float64) holtFit {
	k := min(3, len(values)-1)
	level := values[0]
	trend := (values[k] - values[0]) / float64(k)

	fit := holtFit{alpha: alpha, beta: beta}
	for t := 1; t < len(values); t++ {
		e := values[t] - (level + trend)
		fit.sse += e * e
		fit.errors++

		prevLevel := level
		level = alpha*values[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	fit.level = level
	fit.trend = trend
	return fit
}
