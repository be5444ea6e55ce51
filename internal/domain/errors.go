// Package domain defines the core analyzer values and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrEmptyQuery is returned when a query is missing or contains only whitespace.
	// The API layer maps this to HTTP 400.
	ErrEmptyQuery = errors.New("query cannot be empty")
)
