package retry

import (
	"errors"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/phrazzld/ghost-api/internal/config"
)

// ErrInvalidPolicy is returned when a Policy cannot be run.
var ErrInvalidPolicy = errors.New("invalid retry policy")

// Policy describes how many times an operation may run and how long to wait
// between runs.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// NewBackoff returns a fresh backoff sequence for one Do call.
	// Backoffs are stateful, so each run needs its own.
	NewBackoff func() goretry.Backoff

	// Retryable reports whether err should trigger another attempt.
	// A nil Retryable retries every error.
	Retryable func(error) bool
}

// Validate checks that the policy can be run.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return errors.Join(ErrInvalidPolicy, errors.New("max attempts must be at least 1"))
	}
	if p.NewBackoff == nil {
		return errors.Join(ErrInvalidPolicy, errors.New("backoff factory is required"))
	}
	return nil
}

func (p Policy) shouldRetry(err error) bool {
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

// Exponential returns a backoff factory doubling from base, capped at maxDelay,
// with optional jitter in percent. A non-positive base falls back to one second.
func Exponential(base, maxDelay time.Duration, jitterPercent uint64) func() goretry.Backoff {
	if base <= 0 {
		base = time.Second
	}
	return func() goretry.Backoff {
		b := goretry.NewExponential(base)
		if maxDelay > 0 {
			b = goretry.WithCappedDuration(maxDelay, b)
		}
		if jitterPercent > 0 {
			b = goretry.WithJitterPercent(jitterPercent, b)
		}
		return b
	}
}

// Constant returns a backoff factory waiting d between attempts.
func Constant(d time.Duration) func() goretry.Backoff {
	if d <= 0 {
		d = time.Millisecond
	}
	return func() goretry.Backoff {
		return goretry.NewConstant(d)
	}
}

// FromConfig builds the policy used around Gemini calls.
func FromConfig(cfg config.LLMConfig, retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: cfg.MaxAttempts,
		NewBackoff:  Exponential(cfg.RetryBaseDelay, cfg.RetryMaxDelay, cfg.RetryJitterPercent),
		Retryable:   retryable,
	}
}
