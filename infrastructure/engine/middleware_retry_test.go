package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryMiddleware_SuccessOnFirstAttempt(t *testing.T) {
	core := &fakeCore{}
	wrapped := RetryMiddleware(3, time.Millisecond, 10*time.Millisecond)(core)

	_, err := wrapped.Simulate(context.Background(), benchmarkProcess(t))
	require.NoError(t, err)
	assert.Equal(t, 1, core.callCount(), "no retries on success")
}

func TestRetryMiddleware_RetriesUnavailable(t *testing.T) {
	core := &fakeCore{failures: 2}
	wrapped := RetryMiddleware(3, time.Millisecond, 10*time.Millisecond)(core)

	_, err := wrapped.Simulate(context.Background(), benchmarkProcess(t))
	require.NoError(t, err)
	assert.Equal(t, 3, core.callCount(), "two failures then success")
}

func TestRetryMiddleware_GivesUpAfterMaxRetries(t *testing.T) {
	core := &fakeCore{failures: 100}
	wrapped := RetryMiddleware(2, time.Millisecond, 10*time.Millisecond)(core)

	_, err := wrapped.Simulate(context.Background(), benchmarkProcess(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, core.callCount())
}

// Configuration and solver errors must never be retried: resubmitting the
// same invalid or non-converging process cannot succeed.
func TestRetryMiddleware_DoesNotRetryTerminalErrors(t *testing.T) {
	for _, sentinel := range []error{ErrConfiguration, ErrSolverFailure} {
		core := &fakeCore{err: &EngineError{Message: "terminal", Err: sentinel}}
		wrapped := RetryMiddleware(3, time.Millisecond, 10*time.Millisecond)(core)

		_, err := wrapped.Simulate(context.Background(), benchmarkProcess(t))
		require.ErrorIs(t, err, sentinel)
		assert.Equal(t, 1, core.callCount(), "terminal error must not be retried")
	}
}

func TestRetryMiddleware_RespectsContextCancellation(t *testing.T) {
	core := &fakeCore{failures: 100}
	wrapped := RetryMiddleware(10, 50*time.Millisecond, time.Second)(core)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wrapped.Simulate(ctx, benchmarkProcess(t))
	require.Error(t, err)
	assert.LessOrEqual(t, core.callCount(), 1, "cancelled context must stop the retry loop")
}

func TestRetryMiddleware_Endpoint(t *testing.T) {
	wrapped := RetryMiddleware(1, time.Millisecond, time.Millisecond)(&fakeCore{})
	assert.Equal(t, "fake://engine", wrapped.Endpoint())
}
