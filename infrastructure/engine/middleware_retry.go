package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/chromaflow/chromaflow/internal/domain"
)

// retryEngine implements automatic retry with exponential backoff for
// transport-level failures. Configuration and solver errors are never
// retried: resubmitting an invalid or non-converging process cannot succeed.
type retryEngine struct {
	next       CoreEngine
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// RetryMiddleware creates middleware that retries failed submissions with
// exponential backoff and jitter. Only errors classified as ErrUnavailable
// are retried.
func RetryMiddleware(maxRetries int, baseDelay, maxDelay time.Duration) Middleware {
	return func(next CoreEngine) CoreEngine {
		return &retryEngine{
			next:       next,
			maxRetries: maxRetries,
			baseDelay:  baseDelay,
			maxDelay:   maxDelay,
		}
	}
}

// Simulate executes the submission with automatic retry logic, respecting
// context cancellation between attempts.
func (r *retryEngine) Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		result, err := r.next.Simulate(ctx, process)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt == r.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.calculateDelay(attempt)):
		}
	}

	return nil, fmt.Errorf("simulation failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

func (r *retryEngine) calculateDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}
	multiplier := 1 << uint(attempt)
	delay := time.Duration(float64(r.baseDelay) * float64(multiplier))

	// Jitter of ±25% keeps concurrent sweeps from retrying in lockstep.
	jitter := time.Duration(rand.Float64() * float64(delay) * 0.5)
	delay = delay + jitter - (delay / 4)

	if delay > r.maxDelay {
		delay = r.maxDelay
	}
	return delay
}

// Endpoint returns the endpoint of the wrapped engine.
func (r *retryEngine) Endpoint() string { return r.next.Endpoint() }
