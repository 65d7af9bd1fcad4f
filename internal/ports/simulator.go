// Package ports defines the interfaces between the process model and the
// infrastructure that simulates, measures, and observes it. These interfaces
// enable dependency inversion and make the system testable without a running
// simulation engine.
package ports

import (
	"context"

	"github.com/chromaflow/chromaflow/internal/domain"
)

// Simulator is the port to the external simulation engine. The engine owns
// all transport physics: it discretizes and integrates the process model and
// returns time-indexed solution arrays per unit port. This module never looks
// inside that computation.
type Simulator interface {
	// Simulate runs the fully configured process to completion and returns
	// its solution. The call blocks until the engine finishes or the
	// context is cancelled, and is deterministic for identical process
	// state. The process is not modified.
	//
	// Errors are not retried here; wrap the simulator with engine
	// middleware when retry, rate limiting, or metrics are wanted.
	Simulate(ctx context.Context, process *domain.Process) (*domain.SimulationResult, error)
}
