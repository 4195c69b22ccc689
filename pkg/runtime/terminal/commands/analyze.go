package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/de-tools/sales-atlas/pkg/services/normalize"
	"github.com/de-tools/sales-atlas/pkg/services/pipeline"
	"github.com/de-tools/sales-atlas/pkg/store/dataset"
	storesql "github.com/de-tools/sales-atlas/pkg/store/sql"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	FormatTable = "table"
	FormatText  = "text"
	FormatJSON  = "json"
)

type AnalyzeCmd struct {
	configPath   string
	profilesPath string
	profile      string
	input        string
	sqlitePath   string
	query        string
	encoding     string
	sheet        string
	categories   []string
	topN         int
	horizon      int
	minHistory   int
	forecaster   string
	format       string
	currency     string
	timeout      time.Duration
	registry     forecast.Registry
	output       io.Writer
}

func NewAnalyzeCmd(registry forecast.Registry, output io.Writer) *cobra.Command {
	ac := &AnalyzeCmd{registry: registry, output: output}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Aggregate, rank and forecast a sales dataset",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.input, "input", "", "Path to a CSV or XLSX sales file")
	cmd.Flags().StringVar(&ac.sqlitePath, "sqlite", "", "Path to a sqlite database to read sales from")
	cmd.Flags().StringVar(&ac.query, "query", "SELECT * FROM sales", "Query selecting sales rows from --sqlite")
	cmd.Flags().StringVar(&ac.encoding, "encoding", "", "Text encoding of a CSV input (e.g., windows-1252)")
	cmd.Flags().StringVar(&ac.sheet, "sheet", "", "Workbook sheet to read (default is the first sheet)")
	cmd.Flags().StringVar(&ac.configPath, "config", "", "Path to a YAML/JSON/TOML settings file")
	cmd.Flags().StringVar(&ac.profilesPath, "profiles", "", "Path to an ini file of column-mapping profiles")
	cmd.Flags().StringVar(&ac.profile, "profile", "", "Column-mapping profile to apply from --profiles")
	cmd.Flags().StringSliceVar(&ac.categories, "category", nil, "Category to include; repeat for several (default all)")
	cmd.Flags().IntVar(&ac.topN, "top-n", 0, "Number of products to rank and forecast")
	cmd.Flags().IntVar(&ac.horizon, "horizon", 0, "Number of months to forecast")
	cmd.Flags().IntVar(&ac.minHistory, "min-history", 0, "Minimum months of history required to forecast")
	cmd.Flags().StringVar(&ac.forecaster, "forecaster", "", "Forecasting method (see the forecasters command)")
	cmd.Flags().StringVar(&ac.format, "format", FormatTable, "Output format: table, text or json")
	cmd.Flags().StringVar(&ac.currency, "currency", "", "Currency label for revenue totals")
	cmd.Flags().DurationVar(&ac.timeout, "timeout", 60*time.Second, "Abort the analysis after this long")

	cmd.MarkFlagsMutuallyExclusive("input", "sqlite")
	cmd.MarkFlagsOneRequired("input", "sqlite")
	cmd.MarkFlagsRequiredTogether("profile", "profiles")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	switch ac.format {
	case FormatTable, FormatText, FormatJSON:
	default:
		return fmt.Errorf("unsupported output format %q", ac.format)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), ac.timeout)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Load(ac.configPath)
	if err != nil {
		return err
	}
	ac.applyOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	profile, err := ac.loadProfile(ctx)
	if err != nil {
		return err
	}

	p, err := cfg.Build(ac.registry, profile)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	table, err := ac.loadTable(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("rows", len(table.Rows)).Msg("dataset loaded")

	filter := domain.AllCategories()
	if cmd.Flags().Changed("category") {
		filter = domain.Categories(ac.categories...)
	}

	result, err := p.Run(ctx, pipeline.Input{
		Table:      table,
		Categories: filter,
		TopN:       cfg.TopN,
		Horizon:    cfg.Horizon,
	})
	if err != nil {
		var schemaErr *domain.SchemaError
		if errors.As(err, &schemaErr) {
			return fmt.Errorf("dataset rejected: %w", schemaErr)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	switch ac.format {
	case FormatJSON:
		return export.NewJSONReporter(ac.output).Handle(adapters.MapPipelineResultDomainToApi(*result))
	case FormatText:
		return export.NewTextReporter(ac.output).Handle(adapters.MapPipelineResultToReport(*result, ac.currency))
	default:
		return export.NewReporter(ac.output).Handle(adapters.MapPipelineResultToReport(*result, ac.currency))
	}
}

func (ac *AnalyzeCmd) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("top-n") {
		cfg.TopN = ac.topN
	}
	if flags.Changed("horizon") {
		cfg.Horizon = ac.horizon
	}
	if flags.Changed("min-history") {
		cfg.MinHistory = ac.minHistory
	}
	if flags.Changed("forecaster") {
		cfg.Forecaster = ac.forecaster
	}
}

func (ac *AnalyzeCmd) loadProfile(ctx context.Context) (normalize.ColumnMapping, error) {
	if ac.profile == "" {
		return nil, nil
	}
	registry, err := config.NewProfileRegistry(ac.profilesPath)
	if err != nil {
		return nil, err
	}
	return registry.GetColumns(ctx, ac.profile)
}

func (ac *AnalyzeCmd) loadTable(ctx context.Context) (domain.Table, error) {
	if ac.sqlitePath == "" {
		return dataset.LoadFile(ac.input, dataset.ReadOptions{Encoding: ac.encoding, Sheet: ac.sheet})
	}

	db, err := storesql.OpenSQLite(storesql.Settings{DbPath: ac.sqlitePath})
	if err != nil {
		return domain.Table{}, err
	}
	defer db.Close()

	return storesql.NewRowSource(db).Load(ctx, ac.query)
}
