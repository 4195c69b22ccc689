// Package pipeline runs normalization, aggregation, ranking and forecasting
// over one uploaded dataset.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/aggregate"
	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/de-tools/sales-atlas/pkg/services/normalize"
	"github.com/de-tools/sales-atlas/pkg/services/ranking"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Runner executes the pipeline; handlers and commands depend on this interface.
type Runner interface {
	Run(ctx context.Context, in Input) (*domain.PipelineResult, error)
}

type Input struct {
	Table      domain.Table
	Categories domain.CategoryFilter
	TopN       int
	Horizon    int
}

type Settings struct {
	Metric    domain.Metric
	GapPolicy aggregate.GapPolicy
	// Breakdown is the dimension of the extra monthly table; category when unset.
	Breakdown aggregate.GroupBy
	Workers   int
}

type Pipeline struct {
	normalizer *normalize.Normalizer
	forecaster *forecast.Forecaster
	settings   Settings
}

func New(normalizer *normalize.Normalizer, forecaster *forecast.Forecaster, settings Settings) *Pipeline {
	if settings.Metric == "" {
		settings.Metric = domain.MetricQuantity
	}
	if settings.GapPolicy == "" {
		settings.GapPolicy = aggregate.GapZeroFill
	}
	if settings.Breakdown == "" {
		settings.Breakdown = aggregate.GroupByCategory
	}
	if settings.Workers <= 0 {
		settings.Workers = runtime.NumCPU()
	}
	return &Pipeline{normalizer: normalizer, forecaster: forecaster, settings: settings}
}

// Run normalizes, filters, aggregates, ranks and forecasts in that order.
// It fails only on a schema error or when ctx is done; everything else is
// reported inside the result.
func (p *Pipeline) Run(ctx context.Context, in Input) (*domain.PipelineResult, error) {
	runID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)
	started := time.Now()

	normalized, err := p.normalizer.Normalize(in.Table)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	logger.Info().
		Int("rows", len(in.Table.Rows)).
		Int("valid", len(normalized.Records)).
		Int("rejected", normalized.Rejected).
		Msg("dataset normalized")

	records := aggregate.Filter(normalized.Records, in.Categories)
	if len(records) == 0 && len(normalized.Records) > 0 {
		logger.Warn().Strs("categories", in.Categories.Names()).Msg("category filter excludes every record")
	}

	monthly := aggregate.Monthly(records, aggregate.GroupByNone)
	productMonthly := aggregate.Monthly(records, aggregate.GroupByProduct)
	totals := aggregate.ProductTotals(records)
	ranked := ranking.TopN(totals, in.TopN)

	result := &domain.PipelineResult{
		RunID:          runID,
		Metric:         p.settings.Metric,
		Summary:        aggregate.Summarize(records),
		Monthly:        monthly,
		ProductMonthly: productMonthly,
		BreakdownBy:    string(p.settings.Breakdown),
		Breakdown:      aggregate.Monthly(records, p.settings.Breakdown),
		Ranking:        ranked,
		ProductTotals:  totals,
		Categories:     aggregate.Categories(normalized.Records),
		InputRows:      len(in.Table.Rows),
		Rejected:       normalized.Rejected,
		Rejections:     normalized.Rejections,
	}

	overallSeries := aggregate.Series(monthly, "", p.settings.Metric, p.settings.GapPolicy)
	result.Overall, err = p.forecaster.Forecast(ctx, domain.OverallSubject, overallSeries, in.Horizon)
	if err != nil {
		return nil, fmt.Errorf("forecast overall: %w", err)
	}

	result.Products, err = p.forecastProducts(ctx, productMonthly, ranked, in.Horizon)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("products", len(ranked)).
		Str("overall_status", string(result.Overall.Status)).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline finished")
	return result, nil
}

// forecastProducts fits every ranked product on a bounded pool. Each task owns
// the slot of its ranking position.
func (p *Pipeline) forecastProducts(
	ctx context.Context,
	productMonthly []domain.MonthlyAggregate,
	ranked domain.ProductRanking,
	horizon int,
) ([]domain.ForecastResult, error) {
	series := aggregate.SeriesByKey(productMonthly, p.settings.Metric, p.settings.GapPolicy)
	results := make([]domain.ForecastResult, len(ranked))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.settings.Workers)
	for i, entry := range ranked {
		i, entry := i, entry
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.forecaster.Forecast(gctx, entry.Product, series[entry.Product], horizon)
			if err != nil {
				return fmt.Errorf("forecast %q: %w", entry.Product, err)
			}
			zerolog.Ctx(gctx).Debug().
				Str("product", entry.Product).
				Str("status", string(res.Status)).
				Msg("product forecast done")
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
