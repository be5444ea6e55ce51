package generation

import (
	"context"

	"github.com/phrazzld/ghost-api/internal/domain"
)

// Source is page material fetched for a URL query.
type Source struct {
	// URL is the address the material was fetched from.
	URL string

	// Title is the page title, if any.
	Title string

	// Text is the extracted, whitespace-collapsed page text.
	Text string
}

// Input is everything a Generator needs for a single analysis attempt.
type Input struct {
	// Query is the validated user query.
	Query domain.Query

	// Source is optional page material for URL queries.
	Source *Source
}

// Generator produces an analysis for a query with a single upstream call.
// Implementations do not retry; retry policy belongs to the caller.
type Generator interface {
	// Generate performs one attempt. On failure the returned error wraps one of
	// the sentinel errors in errors.go so callers can classify it.
	Generate(ctx context.Context, in Input) (*domain.Analysis, error)
}
