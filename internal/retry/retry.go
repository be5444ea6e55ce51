package retry

import (
	"context"
	"time"
)

// Sleeper waits for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// TimerSleeper sleeps on a real timer.
type TimerSleeper struct{}

// Sleep blocks for d, returning ctx.Err() if ctx finishes first.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attempt is one run of the retried operation. attempt is 1-based.
type Attempt func(ctx context.Context, attempt int) error

// Do runs fn until it succeeds, returns a non-retryable error, or the policy's
// attempt budget is spent. The last error from fn is returned. If ctx ends
// while waiting between attempts, the last error from fn is still returned
// since it describes the failure better than the cancellation does.
func Do(ctx context.Context, p Policy, s Sleeper, fn Attempt) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if s == nil {
		s = TimerSleeper{}
	}

	backoff := p.NewBackoff()

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == p.MaxAttempts || !p.shouldRetry(lastErr) {
			return lastErr
		}

		delay, stop := backoff.Next()
		if stop {
			return lastErr
		}
		if err := s.Sleep(ctx, delay); err != nil {
			return lastErr
		}
	}

	return lastErr
}
