package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/forecast"
	"github.com/de-tools/sales-atlas/pkg/services/pipeline"
	"github.com/de-tools/sales-atlas/pkg/store/dataset"
	"github.com/rs/zerolog"
)

const (
	defaultMaxUploadBytes = 32 << 20 // 32 MiB
)

type Settings struct {
	TopN           int
	Horizon        int
	Forecaster     string
	MaxUploadBytes int64
}

type Handler struct {
	runner   pipeline.Runner
	registry forecast.Registry
	settings Settings
}

func NewHandler(runner pipeline.Runner, registry forecast.Registry, settings Settings) *Handler {
	if settings.MaxUploadBytes <= 0 {
		settings.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		runner:   runner,
		registry: registry,
		settings: settings,
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	writeJSON(ctx, w, status, api.ErrorResponse{Error: err.Error()})
}

// Analyze runs the pipeline over an uploaded CSV or XLSX file.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.settings.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.settings.MaxUploadBytes); err != nil {
		writeError(ctx, w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	in, err := h.parseInput(r)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}

	result, err := h.runner.Run(ctx, in)
	if err != nil {
		var schemaErr *domain.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			writeJSON(ctx, w, http.StatusBadRequest, api.ErrorResponse{
				Error:   schemaErr.Error(),
				Missing: schemaErr.Missing,
			})
		case errors.Is(err, context.Canceled):
			logger.Warn().Err(err).Msg("analysis aborted by client")
		default:
			logger.Error().Err(err).Msg("analysis failed")
			writeError(ctx, w, http.StatusInternalServerError, errors.New("analysis failed"))
		}
		return
	}

	writeJSON(ctx, w, http.StatusOK, adapters.MapPipelineResultDomainToApi(*result))
}

func (h *Handler) parseInput(r *http.Request) (pipeline.Input, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("missing upload field \"file\": %w", err)
	}
	defer file.Close()

	format, err := dataset.FormatFromPath(header.Filename)
	if err != nil {
		return pipeline.Input{}, err
	}
	table, err := dataset.Read(file, format, dataset.ReadOptions{
		Encoding: r.FormValue("encoding"),
		Sheet:    r.FormValue("sheet"),
	})
	if err != nil {
		return pipeline.Input{}, err
	}

	topN, err := intField(r, "top_n", h.settings.TopN)
	if err != nil {
		return pipeline.Input{}, err
	}
	horizon, err := intField(r, "horizon", h.settings.Horizon)
	if err != nil {
		return pipeline.Input{}, err
	}

	filter := domain.AllCategories()
	if values, ok := r.MultipartForm.Value["category"]; ok {
		filter = domain.Categories(values...)
	}

	return pipeline.Input{
		Table:      table,
		Categories: filter,
		TopN:       topN,
		Horizon:    horizon,
	}, nil
}

func intField(r *http.Request, name string, fallback int) (int, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, raw)
	}
	return n, nil
}

func (h *Handler) ListForecasters(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, api.ForecasterList{
		Default:     h.settings.Forecaster,
		Forecasters: h.registry.List(),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
