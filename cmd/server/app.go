package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/ghost-api/internal/config"
	"github.com/phrazzld/ghost-api/internal/generation"
	"github.com/phrazzld/ghost-api/internal/platform/gemini"
	"github.com/phrazzld/ghost-api/internal/platform/webpage"
	"github.com/phrazzld/ghost-api/internal/retry"
	"github.com/phrazzld/ghost-api/internal/service"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger

	// Service interfaces
	generator       generation.Generator
	analysisService service.AnalysisService
}

// appOptions overrides collaborators, mainly for tests.
type appOptions struct {
	generator   generation.Generator
	sleeper     retry.Sleeper
	fetchClient *http.Client
}

// newApplication creates a new application instance with all dependencies initialized.
// The Gemini generator is only created when an API key is configured; without
// one the service answers every query with the configuration analysis.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	return newApplicationWithOptions(ctx, cfg, logger, appOptions{})
}

func newApplicationWithOptions(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	opts appOptions,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	switch {
	case opts.generator != nil:
		app.generator = opts.generator
	case cfg.LLM.HasCredential():
		gen, err := gemini.NewGenerator(ctx, logger.With("component", "llm_generator"), cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		app.generator = gen
		logger.Info("LLM generator initialized successfully", "model", cfg.LLM.ModelName)
	default:
		logger.Warn("GEMINI_API_KEY is not set; analyses will report a configuration error")
	}

	var fetcher service.PageFetcher
	if cfg.Fetch.Enabled {
		f, err := webpage.NewFetcher(cfg.Fetch, opts.fetchClient, logger.With("component", "page_fetcher"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page fetcher: %w", err)
		}
		fetcher = f
	}

	analysisService, err := service.NewAnalysisService(service.AnalysisServiceDeps{
		Generator:      app.generator,
		Fetcher:        fetcher,
		Policy:         retry.FromConfig(cfg.LLM, generation.IsRetryable),
		Sleeper:        opts.sleeper,
		AttemptTimeout: cfg.LLM.AttemptTimeout,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis service: %w", err)
	}
	app.analysisService = analysisService

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	app.logger.Info("Application shutdown completed")
}
