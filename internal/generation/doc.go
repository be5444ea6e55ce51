// Package generation defines the boundary between the analyzer service and
// external AI/LLM providers (Gemini). It holds the Generator interface that
// provider adapters implement and the error taxonomy the service uses to
// decide whether an attempt is retried and how a failure is reported.
package generation
