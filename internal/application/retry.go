package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/ports"
)

type RetryPolicy struct {
	MaxAttempts int
	// Delay returns the wait before the attempt following attempt.
	Delay func(attempt int) time.Duration
}

func FixedDelay(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

func DefaultLoginRetry(t Timings) RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: FixedDelay(t.WithDefaults().RetryDelay)}
}

// Run calls fn until it succeeds, attempts run out or ctx is done. Only the
// attempt counter is carried between calls.
func (p RetryPolicy) Run(ctx context.Context, clock ports.Clock, fn func(ctx context.Context, attempt int) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if ctx.Err() != nil {
			return attempt, lastErr
		}

		if attempt < maxAttempts && p.Delay != nil {
			if err := clock.Sleep(ctx, p.Delay(attempt)); err != nil {
				return attempt, err
			}
		}
	}

	return maxAttempts, fmt.Errorf("gave up after %d attempts: %w", maxAttempts, lastErr)
}
