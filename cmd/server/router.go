package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phrazzld/ghost-api/internal/api"
	apiMiddleware "github.com/phrazzld/ghost-api/internal/api/middleware"
	"github.com/phrazzld/ghost-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{shared.TraceIDHeader},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	analyzeHandler := api.NewAnalyzeHandler(app.analysisService, app.config.Server.MaxBodyBytes)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", analyzeHandler.Analyze)
	})

	r.Get("/health", analyzeHandler.Health)

	return r
}
