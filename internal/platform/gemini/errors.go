package gemini

import "errors"

// Error definitions for the gemini package. Each is wrapped together with the
// generation sentinel that classifies it.
var (
	// ErrNoCandidates is returned when the response carries no candidates.
	ErrNoCandidates = errors.New("response contained no candidates")

	// ErrEmptyContent is returned when the first candidate has no text.
	ErrEmptyContent = errors.New("response candidate contained no text")

	// ErrSchemaMismatch is returned when the generated JSON lacks a required
	// key or has a value of the wrong type.
	ErrSchemaMismatch = errors.New("generated JSON does not match the analysis schema")
)
