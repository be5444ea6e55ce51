package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/ghost-api/internal/api"
	"github.com/phrazzld/ghost-api/internal/api/shared"
	"github.com/phrazzld/ghost-api/internal/domain"
)

// stubAnalysisService records queries and returns a fixed analysis.
type stubAnalysisService struct {
	mu         sync.Mutex
	queries    []string
	analysis   domain.Analysis
	configured bool
}

func (s *stubAnalysisService) Analyze(_ context.Context, q domain.Query) domain.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q.String())
	return s.analysis
}

func (s *stubAnalysisService) Configured() bool {
	return s.configured
}

func (s *stubAnalysisService) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func sampleAnalysis() domain.Analysis {
	return domain.Analysis{
		Summary:    "S",
		GhostTruth: "G",
		Context:    "C",
		Actions:    []string{"A"},
	}
}

func postAnalyze(t *testing.T, h *api.AnalyzeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func TestAnalyze_Success(t *testing.T) {
	svc := &stubAnalysisService{analysis: sampleAnalysis()}
	h := api.NewAnalyzeHandler(svc, 1<<20)

	rec := postAnalyze(t, h, `{"query":"  what does this memo mean?  "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"analysis":{"summary":"S","ghost_truth":"G","context":"C","actions":["A"]}}`,
		rec.Body.String())
	assert.Equal(t, []string{"what does this memo mean?"}, svc.calls())
}

func TestAnalyze_FailureAnalysisIsStillOK(t *testing.T) {
	svc := &stubAnalysisService{analysis: domain.FailureAnalysis(domain.FailureConfiguration)}
	h := api.NewAnalyzeHandler(svc, 1<<20)

	rec := postAnalyze(t, h, `{"query":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Analysis.Context, "Configuration Error")
}

func TestAnalyze_NilActionsSerializeAsArray(t *testing.T) {
	svc := &stubAnalysisService{analysis: domain.Analysis{Summary: "S"}}
	h := api.NewAnalyzeHandler(svc, 1<<20)

	rec := postAnalyze(t, h, `{"query":"hello"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"analysis":{"summary":"S","ghost_truth":"","context":"","actions":[]}}`,
		rec.Body.String())
}

func TestAnalyze_ClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"missing query", `{}`, http.StatusBadRequest, "No query"},
		{"empty query", `{"query":""}`, http.StatusBadRequest, "No query"},
		{"whitespace query", `{"query":" \n\t "}`, http.StatusBadRequest, "No query"},
		{"null body", `null`, http.StatusBadRequest, "No query"},
		{"empty body", ``, http.StatusBadRequest, "No query"},
		{"malformed json", `{"query":`, http.StatusBadRequest, "Invalid request format"},
		{"wrong type", `{"query":42}`, http.StatusBadRequest, "Invalid request format"},
		{"body too large", `{"query":"` + strings.Repeat("a", 200) + `"}`, http.StatusRequestEntityTooLarge, "Request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAnalysisService{analysis: sampleAnalysis()}
			h := api.NewAnalyzeHandler(svc, 64)

			rec := postAnalyze(t, h, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Empty(t, svc.calls(), "service must not be invoked")
		})
	}
}

func TestHealth(t *testing.T) {
	for _, configured := range []bool{true, false} {
		svc := &stubAnalysisService{configured: configured}
		h := api.NewAnalyzeHandler(svc, 1<<20)

		rec := httptest.NewRecorder()
		h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, configured, resp.LLMConfigured)
	}
}
