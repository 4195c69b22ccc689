package forecast

import (
	"fmt"
	"math"
)

// DefaultConfidence is the coverage of the prediction band.
const DefaultConfidence = 0.80

// zScore returns the two-sided standard normal quantile for confidence.
func zScore(confidence float64) float64 {
	return math.Sqrt2 * math.Erfinv(confidence)
}

func validConfidence(confidence float64) error {
	if !(confidence > 0 && confidence < 1) {
		return fmt.Errorf("confidence must be in (0, 1), got %v", confidence)
	}
	return nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// residualSigma is sqrt(SSE / dof), zero when there are no degrees of freedom.
func residualSigma(sse float64, dof int) float64 {
	if dof <= 0 || sse <= 0 {
		return 0
	}
	return math.Sqrt(sse / float64(dof))
}

func band(estimate, halfWidth float64) Prediction {
	return Prediction{Estimate: estimate, Lower: estimate - halfWidth, Upper: estimate + halfWidth}
}
