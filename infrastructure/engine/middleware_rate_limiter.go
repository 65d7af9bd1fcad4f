package engine

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/chromaflow/chromaflow/internal/domain"
)

// rateLimitedEngine implements rate limiting using a token bucket algorithm.
// Shared simulation services are typically slow and quota-limited; pacing
// submissions keeps a sweep from monopolizing the engine.
type rateLimitedEngine struct {
	next    CoreEngine
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware that paces engine submissions with
// a token bucket. The limit parameter sets submissions per second, while
// burst allows temporary spikes above the sustained rate.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next CoreEngine) CoreEngine {
		return &rateLimitedEngine{next: next, limiter: limiter}
	}
}

// Simulate waits for rate limit permission before forwarding the request.
// This blocks the calling goroutine until a token is available.
func (r *rateLimitedEngine) Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Simulate(ctx, process)
}

// Endpoint returns the endpoint of the wrapped engine.
func (r *rateLimitedEngine) Endpoint() string { return r.next.Endpoint() }
