// Package forecast projects monthly series forward through a pluggable
// capability, refusing to fit series shorter than the minimum history.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// DefaultMinHistory is the shortest series a forecast is attempted for.
const DefaultMinHistory = 6

var (
	ErrDegenerateSeries = errors.New("degenerate series")
	ErrNonFinite        = errors.New("non-finite value")
	ErrTooShort         = errors.New("series too short for model")
)

// Prediction is one future value with its uncertainty band.
type Prediction struct {
	Estimate float64
	Lower    float64
	Upper    float64
}

// Capability fits a model to values and predicts horizon steps ahead.
type Capability interface {
	Name() string
	FitPredict(ctx context.Context, values []float64, horizon int) ([]Prediction, error)
}

type Forecaster struct {
	capability Capability
	minHistory int
}

func NewForecaster(capability Capability, minHistory int) *Forecaster {
	if minHistory <= 0 {
		minHistory = DefaultMinHistory
	}
	return &Forecaster{capability: capability, minHistory: minHistory}
}

func (f *Forecaster) MinHistory() int {
	return f.minHistory
}

func (f *Forecaster) Method() string {
	return f.capability.Name()
}

// Forecast projects history for the horizon months that follow its last month.
// Short histories and failed fits yield ForecastStatusInsufficientHistory; the
// returned error is non-nil only when ctx is done.
func (f *Forecaster) Forecast(
	ctx context.Context,
	subject string,
	history []domain.SeriesPoint,
	horizon int,
) (domain.ForecastResult, error) {
	result := domain.ForecastResult{
		Subject: subject,
		History: append([]domain.SeriesPoint(nil), history...),
		Method:  f.capability.Name(),
	}

	if observed := domain.ObservedMonths(history); observed < f.minHistory {
		return insufficient(result, fmt.Sprintf("history has %d points, need %d", observed, f.minHistory)), nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if horizon <= 0 {
		result.Status = domain.ForecastStatusFitted
		return result, nil
	}

	values := make([]float64, len(history))
	for i, p := range history {
		values[i] = p.Value
	}
	if err := validate(values); err != nil {
		return insufficient(result, "fit failed: "+err.Error()), nil
	}

	predictions, err := f.capability.FitPredict(ctx, values, horizon)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("subject", subject).Str("method", result.Method).Msg("forecast fit failed")
		return insufficient(result, "fit failed: "+err.Error()), nil
	}
	if len(predictions) != horizon {
		return insufficient(result, fmt.Sprintf("fit failed: model returned %d of %d points", len(predictions), horizon)), nil
	}

	last := history[len(history)-1].Month
	points := make([]domain.ForecastPoint, horizon)
	for i, p := range predictions {
		point, err := toPoint(last.AddMonths(i+1), p)
		if err != nil {
			return insufficient(result, "fit failed: "+err.Error()), nil
		}
		points[i] = point
	}

	result.Horizon = points
	result.Status = domain.ForecastStatusFitted
	return result, nil
}

func insufficient(result domain.ForecastResult, reason string) domain.ForecastResult {
	result.Status = domain.ForecastStatusInsufficientHistory
	result.Horizon = nil
	result.Reason = reason
	return result
}

func validate(values []float64) error {
	allZero := true
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNonFinite
		}
		if v != 0 {
			allZero = false
		}
	}
	if allZero {
		return ErrDegenerateSeries
	}
	return nil
}

// toPoint clamps demand at zero and orders the band around the estimate.
func toPoint(month domain.MonthBucket, p Prediction) (domain.ForecastPoint, error) {
	for _, v := range []float64{p.Estimate, p.Lower, p.Upper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.ForecastPoint{}, ErrNonFinite
		}
	}

	estimate := math.Max(p.Estimate, 0)
	return domain.ForecastPoint{
		Month:    month,
		Estimate: estimate,
		Lower:    math.Max(0, math.Min(p.Lower, estimate)),
		Upper:    math.Max(p.Upper, estimate),
	}, nil
}
