package engine

import (
	"errors"
	"fmt"
)

// Error taxonomy for engine invocations. Configuration errors are caused by
// the process definition and will not succeed on retry; solver errors come
// from the numerical engine and may be transient only when the service
// itself was unavailable.
var (
	// ErrConfiguration indicates the engine rejected the process
	// definition (malformed arrays, invalid topology). Retrying the same
	// process cannot succeed.
	ErrConfiguration = errors.New("engine rejected process configuration")

	// ErrSolverFailure indicates the engine accepted the process but the
	// numerical solution failed (non-convergence, step size underflow).
	ErrSolverFailure = errors.New("engine solver failed")

	// ErrUnavailable indicates the engine service could not be reached or
	// returned a transport-level failure. Retrying may succeed.
	ErrUnavailable = errors.New("engine unavailable")
)

// EngineError carries the HTTP status and the engine's own message for a
// failed invocation, wrapped around one of the sentinel errors above.
type EngineError struct {
	// StatusCode is the HTTP status the engine responded with, or zero
	// for transport-level failures.
	StatusCode int

	// Message is the engine's error description.
	Message string

	// Err is the sentinel classifying the failure.
	Err error
}

// Error implements the error interface for EngineError.
func (e *EngineError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("engine error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("engine error: %s", e.Message)
}

// Unwrap returns the classifying sentinel error.
func (e *EngineError) Unwrap() error { return e.Err }

// retryable reports whether a failed invocation is worth retrying.
func retryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
