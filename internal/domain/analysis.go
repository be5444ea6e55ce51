package domain

// Analysis is the structured answer returned for every analyze request.
// All four fields are always serialized, including for failure results.
type Analysis struct {
	// Summary is a short synthesis of the query.
	Summary string `json:"summary"`

	// GhostTruth is the hidden, interpretive reading of the material.
	GhostTruth string `json:"ghost_truth"`

	// Context frames the material in its broader setting.
	Context string `json:"context"`

	// Actions are the recommended next steps, in order.
	Actions []string `json:"actions"`
}

// Normalize guarantees the serialized form carries an actions array rather
// than null. It returns the receiver for chaining.
func (a *Analysis) Normalize() *Analysis {
	if a.Actions == nil {
		a.Actions = []string{}
	}
	return a
}

// FailureKind classifies why a model answer could not be produced.
type FailureKind string

// Recognized failure kinds.
const (
	FailureConfiguration FailureKind = "configuration"
	FailureTimeout       FailureKind = "timeout"
	FailureUpstream      FailureKind = "upstream"
	FailureParse         FailureKind = "parse"
	FailureBlocked       FailureKind = "blocked"
)

var failureAnalyses = map[FailureKind]Analysis{
	FailureConfiguration: {
		Summary:    "API Key Missing.",
		GhostTruth: "The system requires an identity to process this request.",
		Context:    "Configuration Error: GEMINI_API_KEY is not set on the server.",
		Actions: []string{
			"Add GEMINI_API_KEY to the server environment variables",
			"Restart the service after setting the key",
		},
	},
	FailureTimeout: {
		Summary:    "The analysis timed out.",
		GhostTruth: "The model did not answer within the time allowed for this request.",
		Context:    "Timeout Error: the language model took too long to respond.",
		Actions: []string{
			"Paste the text directly instead of a URL",
			"Shorten the query and try again",
			"Retry in a few moments",
		},
	},
	FailureUpstream: {
		Summary:    "API Error.",
		GhostTruth: "The language model service rejected or failed the request.",
		Context:    "Upstream Error: the language model service returned an error.",
		Actions: []string{
			"Retry later",
			"Check the server's API key and quota",
		},
	},
	FailureParse: {
		Summary:    "The analysis came back unreadable.",
		GhostTruth: "The model answered, but not in the expected structured format.",
		Context:    "Response Format Error: the model output was not valid analysis JSON.",
		Actions: []string{
			"Retry the request",
			"Rephrase the query more plainly",
		},
	},
	FailureBlocked: {
		Summary:    "The request was blocked.",
		GhostTruth: "The model's safety filters declined to analyze this material.",
		Context:    "Content Blocked: the language model refused this query.",
		Actions: []string{
			"Rephrase the query",
			"Remove sensitive or explicit material and try again",
		},
	},
}

// FailureAnalysis returns the synthetic analysis describing a failure of the
// given kind. Unknown kinds are reported as upstream failures.
func FailureAnalysis(kind FailureKind) Analysis {
	tmpl, ok := failureAnalyses[kind]
	if !ok {
		tmpl = failureAnalyses[FailureUpstream]
	}
	actions := make([]string, len(tmpl.Actions))
	copy(actions, tmpl.Actions)
	tmpl.Actions = actions
	return tmpl
}
