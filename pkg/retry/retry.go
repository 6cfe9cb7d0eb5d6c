// Package retry provides bounded retry with exponential backoff for
// transient provider failures.
//
// Only errors classified as transient by the policy's Retryable func are
// retried; everything else surfaces immediately. The backoff doubles per
// attempt: 1s, 2s, 4s with the default policy.
//
// Example usage:
//
//	policy := retry.DefaultPolicy(isTransient)
//	resp, err := retry.Do(ctx, policy, func(ctx context.Context) (*inference.ChatResponse, error) {
//	    return provider.Chat(ctx, req)
//	})
package retry

import (
	"context"
	"log/slog"
	"time"
)

// Policy controls retry behavior.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// MaxRetries of 3 means up to 4 calls total.
	MaxRetries int

	// BaseDelay is the backoff unit. Attempt n waits BaseDelay * 2^(n-1).
	BaseDelay time.Duration

	// Retryable classifies errors. Only errors for which it returns
	// true are retried.
	Retryable func(error) bool

	// Sleep is the wait function. Overridable in tests; nil means
	// a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	// Logger for retry events.
	Logger *slog.Logger
}

// DefaultPolicy returns the standard policy: 3 retries, 1s base delay.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		Retryable:  retryable,
		Logger:     slog.Default(),
	}
}

// Do runs fn until it succeeds, fails terminally, or exhausts retries.
// The last error is returned when retries run out.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.Retryable == nil || !p.Retryable(err) {
			return zero, err
		}
		if attempt >= p.MaxRetries {
			return zero, lastErr
		}

		delay := p.BaseDelay << attempt
		logger.Warn("transient failure, backing off",
			"attempt", attempt+1,
			"max_retries", p.MaxRetries,
			"delay", delay,
			"error", err,
		)
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
