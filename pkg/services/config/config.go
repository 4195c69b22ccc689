// Package config loads pipeline settings and column-mapping profiles.
package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/services/aggregate"
	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/de-tools/sales-atlas/pkg/services/normalize"
	"github.com/de-tools/sales-atlas/pkg/services/pipeline"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SALES_ATLAS_MIN_HISTORY.
const EnvPrefix = "SALES_ATLAS"

type Config struct {
	TopN                int                 `mapstructure:"top_n"`
	Horizon             int                 `mapstructure:"horizon"`
	MinHistory          int                 `mapstructure:"min_history"`
	Workers             int                 `mapstructure:"workers"`
	Forecaster          string              `mapstructure:"forecaster"`
	Metric              string              `mapstructure:"metric"`
	GapPolicy           string              `mapstructure:"gap_policy"`
	Breakdown           string              `mapstructure:"breakdown"`
	Confidence          float64             `mapstructure:"confidence"`
	MovingAverageWindow int                 `mapstructure:"moving_average_window"`
	DateFormats         []string            `mapstructure:"date_formats"`
	DecimalSeparator    string              `mapstructure:"decimal_separator"`
	OptionalColumns     []string            `mapstructure:"optional_columns"`
	Columns             map[string][]string `mapstructure:"columns"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("top_n", 5)
	v.SetDefault("horizon", 3)
	v.SetDefault("min_history", forecast.DefaultMinHistory)
	v.SetDefault("workers", 0)
	v.SetDefault("forecaster", forecast.DefaultMethod)
	v.SetDefault("metric", "quantity")
	v.SetDefault("gap_policy", string(aggregate.GapZeroFill))
	v.SetDefault("breakdown", string(aggregate.GroupByCategory))
	v.SetDefault("confidence", forecast.DefaultConfidence)
	v.SetDefault("moving_average_window", forecast.DefaultMovingAverageWindow)
	v.SetDefault("date_formats", normalize.DefaultDateFormats)
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("optional_columns", []string{})
	v.SetDefault("columns", map[string][]string{})
}

// Load reads defaults, then the optional config file at path, then
// SALES_ATLAS_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", c.TopN)
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must not be negative, got %d", c.Horizon)
	}
	if c.MinHistory < 1 {
		return fmt.Errorf("min_history must be at least 1, got %d", c.MinHistory)
	}
	if !(c.Confidence > 0 && c.Confidence < 1) {
		return fmt.Errorf("confidence must be in (0, 1), got %v", c.Confidence)
	}
	if c.DecimalSeparator != "." && c.DecimalSeparator != "," {
		return fmt.Errorf("decimal_separator must be \".\" or \",\", got %q", c.DecimalSeparator)
	}
	if _, err := aggregate.ParseMetric(c.Metric); err != nil {
		return err
	}
	if _, err := aggregate.ParseGapPolicy(c.GapPolicy); err != nil {
		return err
	}
	if _, err := aggregate.ParseGroupBy(c.Breakdown); err != nil {
		return err
	}
	if _, err := c.columnMapping(); err != nil {
		return err
	}
	if _, err := parseFields(c.OptionalColumns); err != nil {
		return err
	}
	return nil
}

func (c *Config) columnMapping() (normalize.ColumnMapping, error) {
	mapping := make(normalize.ColumnMapping, len(c.Columns))
	for name, candidates := range c.Columns {
		f, ok := normalize.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("unknown column field %q", name)
		}
		mapping[f] = candidates
	}
	return mapping, nil
}

func parseFields(names []string) ([]normalize.Field, error) {
	fields := make([]normalize.Field, 0, len(names))
	for _, name := range names {
		f, ok := normalize.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("unknown column field %q", name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// NormalizeOptions merges profile (may be nil) over the configured columns.
func (c *Config) NormalizeOptions(profile normalize.ColumnMapping) (normalize.Options, error) {
	mapping, err := c.columnMapping()
	if err != nil {
		return normalize.Options{}, err
	}
	optional, err := parseFields(c.OptionalColumns)
	if err != nil {
		return normalize.Options{}, err
	}

	opts := normalize.DefaultOptions()
	opts.Columns = normalize.DefaultColumnMapping().Merge(mapping).Merge(profile)
	opts.Optional = optional
	if len(c.DateFormats) > 0 {
		opts.DateFormats = c.DateFormats
	}
	if c.DecimalSeparator == "," {
		opts.DecimalSeparator = ','
	}
	return opts, nil
}

func (c *Config) ForecastSettings() forecast.Settings {
	return forecast.Settings{Confidence: c.Confidence, Window: c.MovingAverageWindow}
}

func (c *Config) PipelineSettings() (pipeline.Settings, error) {
	metric, err := aggregate.ParseMetric(c.Metric)
	if err != nil {
		return pipeline.Settings{}, err
	}
	gap, err := aggregate.ParseGapPolicy(c.GapPolicy)
	if err != nil {
		return pipeline.Settings{}, err
	}
	breakdown, err := aggregate.ParseGroupBy(c.Breakdown)
	if err != nil {
		return pipeline.Settings{}, err
	}
	return pipeline.Settings{Metric: metric, GapPolicy: gap, Breakdown: breakdown, Workers: c.Workers}, nil
}

// Build wires a pipeline from the configuration, a forecaster registry and an
// optional column profile.
func (c *Config) Build(registry forecast.Registry, profile normalize.ColumnMapping) (*pipeline.Pipeline, error) {
	opts, err := c.NormalizeOptions(profile)
	if err != nil {
		return nil, err
	}
	capability, err := registry.Create(c.Forecaster, c.ForecastSettings())
	if err != nil {
		return nil, err
	}
	settings, err := c.PipelineSettings()
	if err != nil {
		return nil, err
	}
	return pipeline.New(
		normalize.New(opts),
		forecast.NewForecaster(capability, c.MinHistory),
		settings,
	), nil
}
