package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/aggregate"
	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/de-tools/sales-atlas/pkg/services/normalize"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestLoad_NoFile_UsesDefaults(t *testing.T) {
	// When
	cfg, err := Load("")

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MinHistory != forecast.DefaultMinHistory {
		t.Errorf("expected MinHistory=%d, got %d", forecast.DefaultMinHistory, cfg.MinHistory)
	}
	if cfg.Forecaster != forecast.DefaultMethod {
		t.Errorf("expected Forecaster=%s, got %s", forecast.DefaultMethod, cfg.Forecaster)
	}
	if cfg.Horizon != 3 || cfg.TopN != 5 {
		t.Errorf("expected Horizon=3 TopN=5, got %d %d", cfg.Horizon, cfg.TopN)
	}
	if cfg.Confidence != forecast.DefaultConfidence {
		t.Errorf("expected Confidence=%v, got %v", forecast.DefaultConfidence, cfg.Confidence)
	}
	settings, err := cfg.PipelineSettings()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if settings.Metric != domain.MetricQuantity || settings.GapPolicy != aggregate.GapZeroFill {
		t.Errorf("unexpected pipeline settings %+v", settings)
	}
	if settings.Breakdown != aggregate.GroupByCategory {
		t.Errorf("expected Breakdown=category, got %s", settings.Breakdown)
	}
}

func TestLoad_BreakdownSelectsGroupBy(t *testing.T) {
	// Given
	path := writeFile(t, "breakdown.yaml", "breakdown: \" Brand \"\n")

	// When
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	settings, err := cfg.PipelineSettings()

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if settings.Breakdown != aggregate.GroupByBrand {
		t.Errorf("expected Breakdown=brand, got %s", settings.Breakdown)
	}
}

func TestLoad_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	path := writeFile(t, "valid.yaml", `top_n: 10
horizon: 6
min_history: 9
workers: 2
forecaster: "moving-average"
metric: "revenue"
gap_policy: "omit"
confidence: 0.95
moving_average_window: 4
decimal_separator: ","
date_formats: ["02.01.2006"]
optional_columns: ["brand"]
columns:
  price: ["omzet", "penjualan"]`)

	// When
	cfg, err := Load(path)

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.TopN != 10 || cfg.Horizon != 6 || cfg.MinHistory != 9 || cfg.Workers != 2 {
		t.Errorf("unexpected numeric settings %+v", cfg)
	}
	if cfg.Forecaster != "moving-average" {
		t.Errorf("expected Forecaster=moving-average, got %s", cfg.Forecaster)
	}

	opts, err := cfg.NormalizeOptions(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := opts.Columns[normalize.FieldPrice]; len(got) != 2 || got[0] != "omzet" {
		t.Errorf("expected price columns [omzet penjualan], got %v", got)
	}
	if got := opts.Columns[normalize.FieldDate]; len(got) == 0 || got[0] != "transaction_date" {
		t.Errorf("expected default date columns, got %v", got)
	}
	if opts.DecimalSeparator != ',' {
		t.Errorf("expected decimal comma, got %q", opts.DecimalSeparator)
	}
	if len(opts.DateFormats) != 1 || opts.DateFormats[0] != "02.01.2006" {
		t.Errorf("unexpected date formats %v", opts.DateFormats)
	}
	if len(opts.Optional) != 1 || opts.Optional[0] != normalize.FieldBrand {
		t.Errorf("unexpected optional columns %v", opts.Optional)
	}

	fs := cfg.ForecastSettings()
	if fs.Confidence != 0.95 || fs.Window != 4 {
		t.Errorf("unexpected forecast settings %+v", fs)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	// Given
	path := writeFile(t, "cfg.yaml", "min_history: 9\n")
	t.Setenv("SALES_ATLAS_MIN_HISTORY", "4")
	t.Setenv("SALES_ATLAS_FORECASTER", "drift")

	// When
	cfg, err := Load(path)

	// Then
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MinHistory != 4 {
		t.Errorf("expected MinHistory=4, got %d", cfg.MinHistory)
	}
	if cfg.Forecaster != "drift" {
		t.Errorf("expected Forecaster=drift, got %s", cfg.Forecaster)
	}
}

func TestLoad_InvalidValues_ReturnError(t *testing.T) {
	tests := map[string]string{
		"bad yaml":        "top_n: [1, 2",
		"bad metric":      "metric: profit",
		"bad gap policy":  "gap_policy: interpolate",
		"bad breakdown":   "breakdown: region",
		"bad confidence":  "confidence: 1.2",
		"bad min history": "min_history: 0",
		"bad column":      "columns:\n  region: [wilayah]",
		"bad optional":    "optional_columns: [region]",
		"bad separator":   "decimal_separator: ';'",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			// Given
			path := writeFile(t, "bad.yaml", content)

			// When
			_, err := Load(path)

			// Then
			if err == nil {
				t.Errorf("expected error for %s, got nil", name)
			}
		})
	}
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestBuild_UnknownForecaster(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	cfg.Forecaster = "prophet"

	if _, err := cfg.Build(forecast.DefaultRegistry(), nil); err == nil {
		t.Error("expected error for unknown forecaster, got nil")
	}

	cfg.Forecaster = "linear"
	p, err := cfg.Build(forecast.DefaultRegistry(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p == nil {
		t.Fatal("expected pipeline, got nil")
	}
}
