// Package main implements the entry point for the Ghost API server, which
// answers analysis queries with a structured reading produced by Gemini.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/phrazzld/ghost-api/internal/config"
	"github.com/phrazzld/ghost-api/internal/platform/logger"
)

// main is the entry point for the ghost-api server.
// It loads configuration, sets up logging, wires dependencies and runs the
// HTTP server until a shutdown signal arrives.
func main() {
	ctx := context.Background()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to create application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up the logger.
// A .env file in the working directory is loaded first when present.
func initializeApp() (*config.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName,
		"llm_configured", cfg.LLM.HasCredential(),
		"search_grounding", cfg.LLM.SearchGrounding,
		"fetch_enabled", cfg.Fetch.Enabled)

	return cfg, appLogger, nil
}
