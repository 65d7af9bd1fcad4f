// Package units provides the concrete unit operations a chromatography flow
// sheet is assembled from: the inlet boundary, the general rate model column,
// and the outlet sink. Each unit implements domain.UnitOperation plus the
// capability interfaces matching what it physically carries.
package units

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by unit constructors.
var (
	// ErrEmptyUnitName is returned when attempting to create a unit with an empty name.
	ErrEmptyUnitName = errors.New("unit name cannot be empty")

	// ErrNilComponentSystem is returned when a unit is created without a component system.
	ErrNilComponentSystem = errors.New("component system is required")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
