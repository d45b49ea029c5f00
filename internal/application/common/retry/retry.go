// Package retry runs operations again after transient failures, with
// exponential backoff between attempts.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gradlemeta/internal/application/common/slogger"
)

// Policy defines how often and how patiently an operation is retried.
type Policy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:    2,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// Operation is one attempt of a retried call.
type Operation func(ctx context.Context) error

// Classifier reports whether err is worth another attempt.
type Classifier func(err error) bool

// Do runs op until it succeeds, fails with an error isRetryable rejects, the
// retries of p are used up or ctx is done. A nil isRetryable retries every error.
func Do(ctx context.Context, p Policy, isRetryable Classifier, op Operation) error {
	var lastErr error
	p.MaxRetries = max(p.MaxRetries, 0)

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.delay(attempt)
			slogger.Debug(ctx, "Retrying operation after delay", slogger.Fields3(
				"attempt", attempt,
				"max_retries", p.MaxRetries,
				"delay_ms", delay.Milliseconds(),
			))

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w (last error: %w)", ctx.Err(), lastErr)
			case <-timer.C:
			}
		}

		err := op(ctx)
		if err == nil {
			if attempt > 0 {
				slogger.Info(ctx, "Operation succeeded after retries", slogger.Field("attempt", attempt+1))
			}
			return nil
		}
		lastErr = err

		if isRetryable != nil && !isRetryable(err) {
			return err
		}
		if attempt < p.MaxRetries {
			slogger.Warn(ctx, "Operation failed, will retry", slogger.Fields3(
				"error", err.Error(),
				"attempt", attempt+1,
				"max_retries", p.MaxRetries,
			))
		}
	}

	if p.MaxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("operation failed after %d retries: %w", p.MaxRetries, lastErr)
}

// delay returns the backoff before the given retry, starting at 1.
func (p Policy) delay(attempt int) time.Duration {
	factor := p.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := float64(p.InitialDelay) * math.Pow(factor, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}

	// up to 25% either way
	if p.Jitter {
		delay += (rand.Float64()*2 - 1) * delay * 0.25
	}
	return time.Duration(delay)
}
