package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/ghost-api/internal/config"
	"github.com/phrazzld/ghost-api/internal/generation"
)

// validateConfig checks the settings the generator cannot run without and
// resolves the JSON-mode/grounding conflict.
//
// Parameters:
//   - ctx: Context for logging
//   - logger: Logger for recording validation results
//   - cfg: The LLM configuration to validate
//
// Returns:
//   - Whether JSON response mode will be requested
//   - An error wrapping generation.ErrInvalidConfig if validation fails
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (bool, error) {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "Missing Gemini API key")
		return false, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		logger.ErrorContext(ctx, "Missing Gemini model name")
		return false, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return false, fmt.Errorf("%w: temperature %v out of range [0, 2]",
			generation.ErrInvalidConfig, cfg.Temperature)
	}

	jsonMode := cfg.JSONMode
	if jsonMode && cfg.SearchGrounding {
		// The API rejects a JSON response MIME type when tools are attached.
		logger.WarnContext(ctx, "Search grounding enabled, disabling JSON response mode",
			"model", cfg.ModelName)
		jsonMode = false
	}

	return jsonMode, nil
}
