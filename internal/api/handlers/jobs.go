package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"jobguard/internal/domain/models"
	"jobguard/internal/domain/services"
	"jobguard/internal/domain/services/ai"
	"jobguard/internal/infrastructure/database/repository"
	"jobguard/pkg/logger"
)

// JobsHandler handles job-listing screening endpoints
type JobsHandler struct {
	analyzer *services.JobAnalyzer
	catalog  *services.Catalog
	ocr      *services.OCRClient
	repo     *repository.AnalysisRepository
	logger   *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(analyzer *services.JobAnalyzer, catalog *services.Catalog, ocr *services.OCRClient, repo *repository.AnalysisRepository, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		analyzer: analyzer,
		catalog:  catalog,
		ocr:      ocr,
		repo:     repo,
		logger:   log.WithComponent("jobs-handler"),
	}
}

// AnalyzeRequest is the request body for listing analysis. Either typed
// text or a base64-encoded screenshot; text wins when both are present.
type AnalyzeRequest struct {
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Filename    string `json:"filename,omitempty"`
}

// AnalyzeResponse wraps the analysis with request-level metadata
type AnalyzeResponse struct {
	Greeting         string              `json:"greeting"`
	Result           *models.JobAnalysis `json:"result"`
	ExplanationError string              `json:"explanation_error,omitempty"`
}

// Analyze handles POST /api/v1/jobs/analyze
func (h *JobsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	text := req.Text
	if services.NormalizeText(text) == "" && req.ImageBase64 != "" {
		if h.ocr == nil {
			writeError(w, http.StatusBadRequest, "Image input is not enabled")
			return
		}
		image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid base64 image data")
			return
		}
		text, err = h.ocr.ExtractText(r.Context(), image, req.Filename)
		if err != nil {
			h.logger.Error().Err(err).Msg("OCR extraction failed")
			writeError(w, http.StatusBadGateway, "Text extraction failed")
			return
		}
	}

	result, err := h.analyzer.Analyze(r.Context(), text)
	switch {
	case errors.Is(err, services.ErrEmptyInput):
		writeError(w, http.StatusBadRequest, "No text detected")
		return
	case errors.Is(err, ai.ErrGenerationFailed):
		// Scored result is still usable; the caller shows a degraded
		// explanation instead of losing the whole analysis
		writeJSON(w, http.StatusOK, AnalyzeResponse{
			Greeting:         greeting(time.Now()),
			Result:           result,
			ExplanationError: "Explanation is temporarily unavailable",
		})
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("analysis failed")
		writeError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Greeting: greeting(time.Now()),
		Result:   result,
	})
}

// Catalog handles GET /api/v1/jobs/catalog - returns the phrase catalog
// and tip table so clients can run local pre-checks
func (h *JobsHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Phrases     []string          `json:"phrases"`
		Tips        map[string]string `json:"tips"`
		LastUpdated string            `json:"last_updated"`
	}{
		Phrases:     h.catalog.Phrases(),
		Tips:        h.catalog.Tips(),
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

// Recent handles GET /api/v1/jobs/recent - returns recent screenings.
// Without a database there is simply no history yet: an empty list, same
// as Stats, not an error.
func (h *JobsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusOK, []models.JobAnalysis{})
		return
	}

	results, err := h.repo.ListRecent(r.Context(), 20)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent analyses")
		writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if results == nil {
		results = []models.JobAnalysis{}
	}

	writeJSON(w, http.StatusOK, results)
}

// Stats handles GET /api/v1/jobs/stats - returns screening statistics
func (h *JobsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeJSON(w, http.StatusOK, &models.AnalysisStats{ByTier: map[string]int64{}})
		return
	}

	stats, err := h.repo.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load stats")
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// greeting returns the time-of-day greeting shown with each result
func greeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good Morning"
	case hour < 17:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
