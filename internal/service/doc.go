// Package service contains the application-specific use cases and business
// logic. It orchestrates the generation port, the optional page fetcher and
// the retry policy to turn a query into an analysis.
//
// The service package implements the application layer in the clean architecture,
// coordinating the flow of data between the HTTP API and the domain layer. It
// abstracts away infrastructure details: it depends on the generation.Generator
// interface, never on the Gemini client.
//
// Key components:
//
// 1. AnalysisService:
//   - Answers every query with a domain.Analysis, never with an error
//   - Short-circuits to a configuration analysis when no model is configured
//
// 2. Attempt Management:
//   - Runs each model call under its own deadline
//   - Retries transient failures through internal/retry
//   - Classifies the final failure into a domain.FailureKind
//
// 3. Dependency Management:
//   - Services receive dependencies through constructor injection
package service
