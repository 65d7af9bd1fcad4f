package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned while assembling or validating process models.
var (
	// ErrNoComponents indicates a component system was created without species.
	ErrNoComponents = errors.New("no components defined")

	// ErrEmptyName indicates a required name (species, unit, event) is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrComponentMismatch indicates a per-species array length does not
	// match the component count of the governing system.
	ErrComponentMismatch = errors.New("component count mismatch")

	// ErrUnknownUnit indicates a reference to a unit that is not part of
	// the flow sheet.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrInvalidTopology indicates the flow sheet connections do not form
	// a valid chain/DAG from sources to sinks.
	ErrInvalidTopology = errors.New("invalid flow sheet topology")

	// ErrEventOutOfRange indicates an event time outside [0, cycle_time].
	ErrEventOutOfRange = errors.New("event time outside cycle")

	// ErrInvalidParameter indicates an event targets a parameter the unit
	// does not expose, or carries a malformed value for it.
	ErrInvalidParameter = errors.New("invalid event parameter")

	// ErrNonPositivePeclet indicates a Peclet number that is zero or
	// negative, for which the dispersion inversion is undefined.
	ErrNonPositivePeclet = errors.New("peclet number must be positive")
)

// ValidationError aggregates the individual failures discovered while
// validating a process model entity. It is returned instead of the first
// failure so callers can report every configuration problem at once.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation failure messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// Addf records a formatted validation failure.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any failures have been recorded.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// ErrOrNil returns the aggregated error, or nil when nothing failed.
func (e *ValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// NewValidationError creates an empty ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: make([]string, 0)}
}
