package api

import "github.com/phrazzld/ghost-api/internal/domain"

// AnalyzeRequest defines the payload for the analyze endpoint.
type AnalyzeRequest struct {
	// Query is free text or an http(s) URL
	Query string `json:"query" validate:"required"`
}

// AnalyzeResponse defines the successful response of the analyze endpoint.
// Failures the client cannot fix are reported inside Analysis, still with 200.
type AnalyzeResponse struct {
	Analysis domain.Analysis `json:"analysis"`
}

// HealthResponse defines the response of the health endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	LLMConfigured bool   `json:"llm_configured"`
}
