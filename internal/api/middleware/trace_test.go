package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/ghost-api/internal/api/middleware"
	"github.com/phrazzld/ghost-api/internal/api/shared"
	"github.com/phrazzld/ghost-api/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	base, buf := logger.GetTestLogger(t)

	var seenTraceID string
	handler := middleware.TraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
		shared.RespondWithError(w, r, http.StatusBadRequest, "No query")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))

	require.NotEmpty(t, seenTraceID)
	assert.Len(t, seenTraceID, 36)
	assert.Equal(t, seenTraceID, rec.Header().Get(shared.TraceIDHeader))
	assert.JSONEq(t, `{"error":"No query","trace_id":"`+seenTraceID+`"}`, rec.Body.String())

	logger.AssertLogContains(t, buf, "request started")
	logger.AssertLogContains(t, buf, "inside handler")
	logger.AssertLogContains(t, buf, "API error response")
	logger.AssertLogField(t, buf, "trace_id", seenTraceID)
}

func TestTraceMiddleware_UniquePerRequest(t *testing.T) {
	base, _ := logger.GetTestLogger(t)
	handler := middleware.TraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	ids := make(map[string]bool)
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		ids[rec.Header().Get(shared.TraceIDHeader)] = true
	}
	assert.Len(t, ids, 10)
}
