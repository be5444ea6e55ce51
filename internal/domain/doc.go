// Package domain contains the core values of the analyzer: the user query,
// the four-field analysis returned to callers, and the synthetic analyses
// that stand in for a model answer when the upstream call cannot succeed.
// It has no knowledge of HTTP, configuration, or the language model provider.
package domain
