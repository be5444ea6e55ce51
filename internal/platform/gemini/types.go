package gemini

import "google.golang.org/genai"

// promptData represents the data passed to the prompt template
type promptData struct {
	// Prefix is prepended verbatim to the query, e.g. "Analyze this: ".
	Prefix string

	// Query is the trimmed user query.
	Query string

	// IsURL reports whether Query is an http(s) URL.
	IsURL bool

	// PageTitle and PageText hold fetched page material, when available.
	PageTitle string
	PageText  string
}

// systemInstruction is sent with every request.
const systemInstruction = `You are Ghost, an analyst who reads what a text or page is really saying.
Return ONLY a JSON object with keys: summary, ghost_truth, context, actions (list).
- summary: a short, plain synthesis of the material.
- ghost_truth: the unstated motive or implication underneath it.
- context: the background a reader needs to judge it.
- actions: concrete next steps for the reader, as an array of strings.
Do not wrap the JSON in Markdown and do not add any other keys or commentary.`

// analysisKeys lists the keys every analysis must carry, in output order.
var analysisKeys = []string{"summary", "ghost_truth", "context", "actions"}

// responseSchema is the structured-output schema sent in JSON mode.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":     {Type: genai.TypeString},
			"ghost_truth": {Type: genai.TypeString},
			"context":     {Type: genai.TypeString},
			"actions": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: analysisKeys,
	}
}
