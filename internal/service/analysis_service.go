package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/ghost-api/internal/domain"
	"github.com/phrazzld/ghost-api/internal/generation"
	"github.com/phrazzld/ghost-api/internal/platform/logger"
	"github.com/phrazzld/ghost-api/internal/platform/webpage"
	"github.com/phrazzld/ghost-api/internal/redact"
	"github.com/phrazzld/ghost-api/internal/retry"
)

// PageFetcher retrieves page material for URL queries.
type PageFetcher interface {
	// Fetch downloads url and extracts its readable text
	Fetch(ctx context.Context, url string) (*webpage.Page, error)
}

// AnalysisService provides query analysis
type AnalysisService interface {
	// Analyze returns the analysis for query. It never fails: configuration,
	// upstream and parse problems are reported as a synthetic analysis.
	Analyze(ctx context.Context, query domain.Query) domain.Analysis

	// Configured reports whether a language model is available
	Configured() bool
}

// AnalysisServiceDeps holds the collaborators of the analysis service.
type AnalysisServiceDeps struct {
	// Generator performs one model call per attempt. Nil means no API key is
	// configured; every query then gets the configuration analysis.
	Generator generation.Generator

	// Fetcher is optional. When set, URL queries are fetched first.
	Fetcher PageFetcher

	// Policy bounds the attempts made per query.
	Policy retry.Policy

	// Sleeper waits between attempts. Nil uses a real timer.
	Sleeper retry.Sleeper

	// AttemptTimeout is the deadline for each model call.
	AttemptTimeout time.Duration

	Logger *slog.Logger
}

// analysisServiceImpl implements the AnalysisService interface
type analysisServiceImpl struct {
	generator      generation.Generator
	fetcher        PageFetcher
	policy         retry.Policy
	sleeper        retry.Sleeper
	attemptTimeout time.Duration
	logger         *slog.Logger
}

// NewAnalysisService creates a new AnalysisService.
// It returns an error if the retry policy or attempt timeout is unusable.
func NewAnalysisService(deps AnalysisServiceDeps) (AnalysisService, error) {
	if deps.Generator != nil {
		if err := deps.Policy.Validate(); err != nil {
			return nil, &AnalysisServiceError{
				Operation: "create_service",
				Message:   "retry policy is invalid",
				Err:       errors.Join(ErrInvalidDependency, err),
			}
		}
		if deps.AttemptTimeout <= 0 {
			return nil, &AnalysisServiceError{
				Operation: "create_service",
				Message:   "attempt timeout must be positive",
				Err:       ErrInvalidDependency,
			}
		}
	}

	sleeper := deps.Sleeper
	if sleeper == nil {
		sleeper = retry.TimerSleeper{}
	}

	// Use provided logger or create default
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	return &analysisServiceImpl{
		generator:      deps.Generator,
		fetcher:        deps.Fetcher,
		policy:         deps.Policy,
		sleeper:        sleeper,
		attemptTimeout: deps.AttemptTimeout,
		logger:         log.With("component", "analysis_service"),
	}, nil
}

// Configured implements AnalysisService.
func (s *analysisServiceImpl) Configured() bool {
	return s.generator != nil
}

// Analyze implements AnalysisService.
func (s *analysisServiceImpl) Analyze(ctx context.Context, query domain.Query) domain.Analysis {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.generator == nil {
		log.WarnContext(ctx, "analysis requested but no API key is configured")
		return domain.FailureAnalysis(domain.FailureConfiguration)
	}

	if query.IsZero() {
		log.ErrorContext(ctx, "analysis requested with an empty query")
		return domain.FailureAnalysis(domain.FailureUpstream)
	}

	in := generation.Input{Query: query}
	if s.fetcher != nil && query.IsURL() {
		in.Source = s.fetchSource(ctx, log, query.String())
	}

	start := time.Now()
	var result *domain.Analysis

	err := retry.Do(ctx, s.policy, s.sleeper, func(ctx context.Context, attempt int) error {
		a, err := s.attempt(ctx, in)
		if err != nil {
			log.WarnContext(ctx, "analysis attempt failed",
				"attempt", attempt,
				"max_attempts", s.policy.MaxAttempts,
				"failure_kind", generation.FailureKind(err),
				"retryable", generation.IsRetryable(err),
				"error", redact.Error(err))
			return err
		}
		result = a
		return nil
	})

	if err != nil {
		kind := generation.FailureKind(err)
		log.ErrorContext(ctx, "analysis failed",
			"failure_kind", kind,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", redact.Error(err))
		return domain.FailureAnalysis(kind)
	}

	log.InfoContext(ctx, "analysis completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"actions", len(result.Actions))

	return *result.Normalize()
}

// attempt makes one bounded generator call.
func (s *analysisServiceImpl) attempt(ctx context.Context, in generation.Input) (*domain.Analysis, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	a, err := s.generator.Generate(attemptCtx, in)
	if err != nil {
		// A generator that did not classify its own deadline still timed out.
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) &&
			!errors.Is(err, generation.ErrTimeout) &&
			!errors.Is(err, generation.ErrContentBlocked) {
			return nil, fmt.Errorf("%w: %w", generation.ErrTimeout, err)
		}
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: generator returned no analysis", generation.ErrUpstream)
	}
	return a, nil
}

// fetchSource returns page material for url, or nil when it cannot be fetched.
func (s *analysisServiceImpl) fetchSource(ctx context.Context, log *slog.Logger, url string) *generation.Source {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.WarnContext(ctx, "page fetch failed, analyzing the URL alone",
			"error", redact.Error(err))
		return nil
	}
	if page == nil || page.Text == "" {
		return nil
	}

	log.DebugContext(ctx, "page fetched",
		"title_length", len(page.Title),
		"text_length", len(page.Text),
		"truncated", page.Truncated)

	return &generation.Source{
		URL:   page.URL,
		Title: page.Title,
		Text:  page.Text,
	}
}
