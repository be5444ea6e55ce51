package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"github.com/phrazzld/ghost-api/internal/domain"
	"github.com/phrazzld/ghost-api/internal/generation"
)

const analysisJSONSchema = `{
	"type": "object",
	"required": ["summary", "ghost_truth", "context", "actions"],
	"properties": {
		"summary":     {"type": "string"},
		"ghost_truth": {"type": "string"},
		"context":     {"type": "string"},
		"actions":     {"type": "array", "items": {"type": "string"}}
	}
}`

var analysisSchema = mustCompileSchema(analysisJSONSchema)

func mustCompileSchema(doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("gemini: invalid analysis schema: %v", err))
	}
	return schema
}

// blockedFinishReasons are finish reasons meaning the model refused the content.
var blockedFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety: true,
	"PROHIBITED_CONTENT":     true,
	"BLOCKLIST":              true,
	"SPII":                   true,
}

// extractText returns the concatenated text of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: %w", generation.ErrUpstream, ErrNoCandidates)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s",
			generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", fmt.Errorf("%w: %w", generation.ErrUpstream, ErrNoCandidates)
	}

	candidate := resp.Candidates[0]
	if blockedFinishReasons[candidate.FinishReason] {
		return "", fmt.Errorf("%w: finish reason %s",
			generation.ErrContentBlocked, candidate.FinishReason)
	}

	if candidate.Content == nil {
		return "", fmt.Errorf("%w: %w", generation.ErrUpstream, ErrEmptyContent)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: %w", generation.ErrUpstream, ErrEmptyContent)
	}

	return text, nil
}

// parseAnalysis turns model output into a normalized Analysis.
// Every failure wraps generation.ErrInvalidResponse.
func parseAnalysis(text string) (*domain.Analysis, error) {
	payload := StripCodeFence(text)

	result, err := analysisSchema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: output is not JSON: %v", generation.ErrInvalidResponse, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("%w: %w: %s",
			generation.ErrInvalidResponse, ErrSchemaMismatch, strings.Join(problems, "; "))
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return analysis.Normalize(), nil
}
