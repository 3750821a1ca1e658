// Package api provides the HTTP surface of the document risk analysis
// service: health, analysis submission, and archived result lookup.
package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/faris-sait/ClauseGuard24/internal/analyzer"
	"github.com/faris-sait/ClauseGuard24/internal/chunk"
	"github.com/faris-sait/ClauseGuard24/internal/extract"
	"github.com/faris-sait/ClauseGuard24/internal/metrics"
	"github.com/faris-sait/ClauseGuard24/internal/store"
	"github.com/faris-sait/ClauseGuard24/internal/types"
)

const (
	serviceName = "clauseguard"
	// postProcessTimeout bounds best-effort persistence and notification
	// after the response has been sent
	postProcessTimeout = 15 * time.Second
	// defaultListLimit caps the archive listing size
	defaultListLimit = 50
)

// AnalyzeService runs the analysis pipeline for one URL
type AnalyzeService interface {
	Analyze(ctx context.Context, rawURL string) (*types.AnalysisResult, error)
}

// Archive persists and retrieves completed analyses
type Archive interface {
	Save(ctx context.Context, result *types.AnalysisResult) error
	Get(ctx context.Context, id string) (*types.AnalysisResult, error)
	List(ctx context.Context, limit int) ([]*types.AnalysisResult, error)
}

// Notifier announces completed analyses
type Notifier interface {
	NotifyAnalysis(ctx context.Context, result *types.AnalysisResult) error
}

// Handler manages API endpoints. Archive and notifier may be nil; the
// corresponding behavior is skipped.
type Handler struct {
	analyzer AnalyzeService
	archive  Archive
	notifier Notifier
	metrics  *metrics.Metrics
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// AnalyzeRequest represents a document analysis request
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// handleHealth returns service health status
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleAnalyze validates the request, runs the analysis pipeline, and
// returns the complete result. Persistence and notification happen after
// the response and never affect it.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if err := validateURL(req.URL); err != nil {
		respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
		return
	}

	start := time.Now()

	result, err := h.analyzer.Analyze(r.Context(), req.URL)

	if h.metrics != nil {
		h.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
		h.metrics.AnalysesTotal.WithLabelValues(outcomeLabel(err)).Inc()
	}

	if err != nil {
		status, code := mapAnalysisError(err)

		log.Warn().Err(err).Str("url", req.URL).Str("code", code).Msg("analysis failed")
		respondError(w, status, code, err.Error())

		return
	}

	if h.metrics != nil {
		h.metrics.RiskScores.Observe(float64(result.RiskScore))
	}

	go h.postProcess(result)

	respondData(w, http.StatusOK, result)
}

// handleGetAnalysis returns one archived analysis by ID
func (h *Handler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStorageNotConfigured.Error())
		return
	}

	id := chi.URLParam(r, "id")

	result, err := h.archive.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, errCodeNotFound, err.Error())
		return
	}

	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("archive lookup failed")
		respondError(w, http.StatusInternalServerError, errCodeInternal, "failed to load analysis")

		return
	}

	respondData(w, http.StatusOK, result)
}

// handleListAnalyses returns the most recent archived analyses
func (h *Handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrStorageNotConfigured.Error())
		return
	}

	results, err := h.archive.List(r.Context(), defaultListLimit)
	if err != nil {
		log.Error().Err(err).Msg("archive listing failed")
		respondError(w, http.StatusInternalServerError, errCodeInternal, "failed to list analyses")

		return
	}

	if results == nil {
		results = []*types.AnalysisResult{}
	}

	respondData(w, http.StatusOK, results)
}

// postProcess persists and announces a completed analysis. Failures are
// logged and otherwise ignored.
func (h *Handler) postProcess(result *types.AnalysisResult) {
	ctx, cancel := context.WithTimeout(context.Background(), postProcessTimeout)
	defer cancel()

	if h.archive != nil {
		if err := h.archive.Save(ctx, result); err != nil {
			log.Warn().Err(err).Str("id", result.ID).Msg("failed to archive analysis")
		}
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyAnalysis(ctx, result); err != nil {
			log.Warn().Err(err).Str("id", result.ID).Msg("failed to send analysis notification")
		}
	}
}

// validateURL rejects anything that is not an absolute http or https URL
// before any network activity happens
func validateURL(raw string) error {
	if raw == "" {
		return ErrURLRequired
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// mapAnalysisError translates pipeline errors to an HTTP status and a
// stable error code
func mapAnalysisError(err error) (int, string) {
	switch {
	case errors.Is(err, extract.ErrFetchFailed):
		return http.StatusBadGateway, errCodeFetchFailed
	case errors.Is(err, extract.ErrNoContent):
		return http.StatusUnprocessableEntity, errCodeExtraction
	case errors.Is(err, chunk.ErrInvalidChunkSize), errors.Is(err, chunk.ErrOverlapExceedsSize):
		return http.StatusInternalServerError, errCodeConfigInvalid
	case errors.Is(err, analyzer.ErrDeadlineExceeded):
		return http.StatusGatewayTimeout, errCodeTimeout
	default:
		return http.StatusInternalServerError, errCodeInternal
	}
}

// outcomeLabel is the metrics outcome label for an analysis attempt
func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}

	_, code := mapAnalysisError(err)

	return code
}
