// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API to analyze a query into a domain.Analysis.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the analysis service to Google's external Gemini AI service.
// It translates between the application's domain models and the Gemini API
// without exposing the details of the external service to the core application.
//
// Key components:
//
// 1. Generator:
//   - Implements the generation.Generator interface
//   - Performs exactly one generateContent call per Generate
//   - Leaves retry policy to the caller
//
// 2. Prompt Management:
//   - Renders the user prompt from an embedded text/template
//   - Optionally loads a replacement template from disk
//   - Sends a fixed system instruction naming the four analysis keys
//
// 3. Response Processing:
//   - Concatenates candidate text parts
//   - Strips Markdown code fences (StripCodeFence)
//   - Validates the JSON against the analysis schema before decoding
//
// 4. Error Handling:
//   - Maps deadlines to generation.ErrTimeout
//   - Maps safety blocks to generation.ErrContentBlocked
//   - Maps transport and empty responses to generation.ErrUpstream
//   - Maps malformed output to generation.ErrInvalidResponse
//
// The package depends on Google's google.golang.org/genai client library
// for communicating with the Gemini API.
package gemini
