package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"text/template"

	"google.golang.org/genai"

	"github.com/phrazzld/ghost-api/internal/config"
	"github.com/phrazzld/ghost-api/internal/domain"
	"github.com/phrazzld/ghost-api/internal/generation"
	"github.com/phrazzld/ghost-api/internal/platform/logger"
	"github.com/phrazzld/ghost-api/internal/redact"
)

// Generator implements the generation.Generator interface using
// Google's Gemini API to analyze queries.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// requestConfig is built once and shared by every call
	requestConfig *genai.GenerateContentConfig
}

// Compile-time check that Generator satisfies the port.
var _ generation.Generator = (*Generator)(nil)

// Option customizes a Generator.
type Option func(*genai.ClientConfig)

// WithHTTPClient sets the HTTP client used for Gemini calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPClient = c
	}
}

// NewGenerator creates a new Generator with the provided dependencies.
//
// Parameters:
//   - ctx: Context for the operation, which can be used for cancellation
//   - logger: A structured logger for operation logging
//   - cfg: LLM configuration containing API key, model name, and other settings
//   - opts: Optional client customizations
//
// Returns:
//   - A properly initialized Generator or an error wrapping
//     generation.ErrInvalidConfig if initialization fails
func NewGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
	opts ...Option,
) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	jsonMode, err := validateConfig(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}

	promptTemplate, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	for _, opt := range opts {
		opt(clientConfig)
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %s",
			generation.ErrInvalidConfig, redact.Error(err))
	}

	logger.InfoContext(ctx, "Gemini generator initialized",
		"model", cfg.ModelName,
		"json_mode", jsonMode,
		"search_grounding", cfg.SearchGrounding,
		"custom_prompt_template", cfg.PromptTemplatePath != "")

	return &Generator{
		logger:         logger,
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		requestConfig:  buildRequestConfig(cfg, jsonMode),
	}, nil
}

// buildRequestConfig assembles the per-call generation settings.
func buildRequestConfig(cfg config.LLMConfig, jsonMode bool) *genai.GenerateContentConfig {
	temperature := cfg.Temperature

	rc := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: &temperature,
	}

	if jsonMode {
		rc.ResponseMIMEType = "application/json"
		rc.ResponseSchema = responseSchema()
	}

	if cfg.SearchGrounding {
		rc.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	return rc
}

// Generate performs a single Gemini call for in and parses the answer.
//
// The caller owns the deadline: ctx should carry the per-attempt timeout.
// Errors wrap the generation sentinels; upstream error text is redacted
// before it is embedded.
func (g *Generator) Generate(ctx context.Context, in generation.Input) (*domain.Analysis, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if in.Query.IsZero() {
		return nil, fmt.Errorf("%w: %w", generation.ErrInvalidConfig, domain.ErrEmptyQuery)
	}

	prompt, err := renderPrompt(g.promptTemplate, g.config.QueryPrefix, in)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	log.DebugContext(ctx, "Making Gemini API call",
		"model", g.config.ModelName,
		"prompt_length", len(prompt),
		"has_source", in.Source != nil)

	resp, err := g.client.Models.GenerateContent(ctx, g.config.ModelName, contents, g.requestConfig)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", generation.ErrTimeout, redact.Error(err))
		}
		return nil, fmt.Errorf("%w: %s", generation.ErrUpstream, redact.Error(err))
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(text)
	if err != nil {
		log.DebugContext(ctx, "Gemini output failed to parse",
			"output_length", len(text),
			"error", redact.Error(err))
		return nil, err
	}

	return analysis, nil
}
