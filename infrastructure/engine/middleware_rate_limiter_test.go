package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimitMiddleware_AllowsWithinBurst(t *testing.T) {
	core := &fakeCore{}
	wrapped := RateLimitMiddleware(rate.Limit(1), 3)(core)

	process := benchmarkProcess(t)
	for i := 0; i < 3; i++ {
		_, err := wrapped.Simulate(context.Background(), process)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, core.callCount())
}

func TestRateLimitMiddleware_BlocksUntilCancelled(t *testing.T) {
	core := &fakeCore{}
	// One token total: the second call must wait ~a minute and should be
	// cut short by the context instead.
	wrapped := RateLimitMiddleware(rate.Every(time.Minute), 1)(core)

	process := benchmarkProcess(t)
	_, err := wrapped.Simulate(context.Background(), process)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = wrapped.Simulate(ctx, process)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, 1, core.callCount(), "blocked call must not reach the engine")
}

func TestRateLimitMiddleware_SharedAcrossWraps(t *testing.T) {
	// The middleware closes over one limiter, so wrapping two cores shares
	// the same budget.
	mw := RateLimitMiddleware(rate.Every(time.Minute), 1)
	first := mw(&fakeCore{})
	second := mw(&fakeCore{})

	process := benchmarkProcess(t)
	_, err := first.Simulate(context.Background(), process)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = second.Simulate(ctx, process)
	assert.Error(t, err, "the burst token is already spent")
}
