package generation

import (
	"errors"

	"github.com/phrazzld/ghost-api/internal/domain"
)

// Common errors returned by Generator implementations
var (
	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrTimeout is returned when an attempt exceeds its deadline
	ErrTimeout = errors.New("language model call timed out")

	// ErrUpstream is returned for transport failures, non-OK statuses and
	// responses that carry no usable content
	ErrUpstream = errors.New("language model service error")

	// ErrInvalidResponse is returned when the generated text cannot be parsed
	// into an analysis
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")
)

// IsRetryable reports whether another attempt could plausibly succeed.
// Blocked content and configuration errors are permanent.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrContentBlocked), errors.Is(err, ErrInvalidConfig):
		return false
	default:
		return true
	}
}

// FailureKind maps a generator error to the domain failure kind used to
// build the synthetic analysis. Unrecognized errors count as upstream failures.
func FailureKind(err error) domain.FailureKind {
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return domain.FailureConfiguration
	case errors.Is(err, ErrTimeout):
		return domain.FailureTimeout
	case errors.Is(err, ErrInvalidResponse):
		return domain.FailureParse
	case errors.Is(err, ErrContentBlocked):
		return domain.FailureBlocked
	default:
		return domain.FailureUpstream
	}
}
