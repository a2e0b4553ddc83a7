// Package retry runs failure-prone operations with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
)

type options struct {
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

type Option func(*options)

// WithMaxAttempts overrides the attempt budget (minimum 1).
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the first backoff interval.
func WithBaseDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.baseDelay = d
		}
	}
}

// WithSleep substitutes the sleep mechanism. Tests inject a recorder
// here so backoff behavior is observable without real time passing.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *options) { o.sleep = sleep }
}

// Backoff returns the wait before retrying after the given 1-based
// attempt: base * 2^(attempt-1). No jitter.
func Backoff(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

// Do invokes fn until it succeeds or the attempt budget is exhausted,
// sleeping Backoff(attempt, base) between attempts. On exhaustion the
// returned error names the operation and attempt count and wraps the
// last underlying cause.
func Do[T any](ctx context.Context, op string, fn func() (T, error), opts ...Option) (T, error) {
	o := options{
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < o.maxAttempts {
			wait := Backoff(attempt, o.baseDelay)
			slog.Warn("operation failed, retrying", "op", op, "attempt", attempt, "max_attempts", o.maxAttempts, "wait", wait, "error", err)
			o.sleep(wait)
		}
	}

	return zero, fmt.Errorf("%s: failed after %d attempts: %w", op, o.maxAttempts, lastErr)
}
