package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/ghost-api/internal/domain"
)

// ErrInvalidRequestFormat is returned when the request body is not the
// expected JSON document.
var ErrInvalidRequestFormat = errors.New("invalid request format")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, ErrInvalidRequestFormat):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxBytesErr):
		return "Request body too large"

	case errors.Is(err, domain.ErrEmptyQuery):
		return "No query"

	case errors.Is(err, ErrInvalidRequestFormat):
		return "Invalid request format"

	default:
		return "An unexpected error occurred"
	}
}
