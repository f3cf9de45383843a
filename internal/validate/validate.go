// SPDX-License-Identifier: MIT

// Package validate provides configuration validation utilities for trainconf.
package validate

import (
	"fmt"
	"math"
	"strings"
)

// Error represents a validation error
type Error struct {
	Field   string      // Field name that failed validation
	Value   interface{} // The invalid value
	Message string      // Human-readable error message
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors and can produce a ValidationError when invalid.
type Validator struct {
	errors []Error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

// New creates a new validator
func New() *Validator {
	return &Validator{
		errors: make([]Error, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value interface{}) {
	v.errors = append(v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all accumulated validation errors
func (v *Validator) Errors() []Error {
	return v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}

	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)

	return ValidationError{errors: copied}
}

// Errors returns the individual validation errors making up the validation failure.
func (e ValidationError) Errors() []Error {
	return e.errors
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}

	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	// Multiple errors - format as list
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Range validates that an integer is within a specified range (inclusive)
func (v *Validator) Range(field string, value, minVal, maxVal int) {
	if value < minVal || value > maxVal {
		v.AddError(field,
			fmt.Sprintf("value must be between %d and %d, got %d", minVal, maxVal, value),
			value)
	}
}

// Min validates that an integer is at least the given minimum
func (v *Validator) Min(field string, value, minVal int) {
	if value < minVal {
		v.AddError(field,
			fmt.Sprintf("value must be >= %d, got %d", minVal, value),
			value)
	}
}

// Positive validates that an integer is strictly positive
func (v *Validator) Positive(field string, value int) {
	if value < 1 {
		v.AddError(field,
			fmt.Sprintf("value must be >= 1, got %d", value),
			value)
	}
}

// FloatOpenRange validates that a float lies in the open interval (minVal, maxVal)
func (v *Validator) FloatOpenRange(field string, value, minVal, maxVal float64) {
	if !isFinite(value) || value <= minVal || value >= maxVal {
		v.AddError(field,
			fmt.Sprintf("value must be in (%g, %g), got %g", minVal, maxVal, value),
			value)
	}
}

// FloatHalfOpenRange validates that a float lies in the half-open interval [minVal, maxVal)
func (v *Validator) FloatHalfOpenRange(field string, value, minVal, maxVal float64) {
	if !isFinite(value) || value < minVal || value >= maxVal {
		v.AddError(field,
			fmt.Sprintf("value must be in [%g, %g), got %g", minVal, maxVal, value),
			value)
	}
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
