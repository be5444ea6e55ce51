package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/ghost-api/internal/api/shared"
	"github.com/phrazzld/ghost-api/internal/domain"
	"github.com/phrazzld/ghost-api/internal/service"
)

// AnalyzeHandler handles analysis HTTP requests
type AnalyzeHandler struct {
	analysisService service.AnalysisService
	validator       *validator.Validate
	maxBodyBytes    int64
}

// NewAnalyzeHandler creates a new AnalyzeHandler. A non-positive maxBodyBytes
// leaves request bodies uncapped.
func NewAnalyzeHandler(analysisService service.AnalysisService, maxBodyBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
		validator:       validator.New(),
		maxBodyBytes:    maxBodyBytes,
	}
}

// Analyze handles POST /api/analyze requests
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(w, r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	analysis := h.analysisService.Analyze(r.Context(), query)

	shared.RespondWithJSON(w, r, http.StatusOK, AnalyzeResponse{
		Analysis: *analysis.Normalize(),
	})
}

// parseQuery decodes and validates the request body.
func (h *AnalyzeHandler) parseQuery(w http.ResponseWriter, r *http.Request) (domain.Query, error) {
	var req AnalyzeRequest
	if err := shared.DecodeJSON(w, r, &req, h.maxBodyBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return domain.Query{}, err
		case errors.Is(err, io.EOF):
			// An empty body carries no query at all
			return domain.Query{}, domain.ErrEmptyQuery
		default:
			return domain.Query{}, fmt.Errorf("%w: %v", ErrInvalidRequestFormat, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return domain.Query{}, fmt.Errorf("%w: %v", domain.ErrEmptyQuery, err)
	}

	return domain.NewQuery(req.Query)
}

// Health handles GET /health requests
func (h *AnalyzeHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:        "ok",
		LLMConfigured: h.analysisService.Configured(),
	})
}
