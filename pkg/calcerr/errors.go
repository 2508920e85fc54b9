// Package calcerr defines the error kinds returned by the calculator core.
//
// Every core function fails with one of three kinds. Callers match the kind
// with errors.Is against the sentinels and extract details with errors.As.
package calcerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks non-numeric, zero, negative or otherwise
	// out-of-domain input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange marks a start instant that falls after its end instant.
	ErrInvalidRange = errors.New("invalid range")

	// ErrUnknownUnit marks a unit, category or currency absent from the
	// static tables.
	ErrUnknownUnit = errors.New("unknown unit")
)

// InvalidInputError describes a rejected input value.
type InvalidInputError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidRangeError describes a start that comes after its end.
type InvalidRangeError struct {
	Start string
	End   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}

// Is reports whether target is ErrInvalidRange.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// UnknownUnitError describes a lookup miss in a static table.
type UnknownUnitError struct {
	Category string
	Unit     string
}

func (e *UnknownUnitError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("unknown category %q", e.Category)
	}
	if e.Category == "" {
		return fmt.Sprintf("unknown unit %q", e.Unit)
	}
	return fmt.Sprintf("unknown unit %q in category %q", e.Unit, e.Category)
}

// Is reports whether target is ErrUnknownUnit.
func (e *UnknownUnitError) Is(target error) bool {
	return target == ErrUnknownUnit
}

// InvalidInput is shorthand for building an *InvalidInputError.
func InvalidInput(field string, value interface{}, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

// UnknownUnit is shorthand for building an *UnknownUnitError.
func UnknownUnit(category, unit string) error {
	return &UnknownUnitError{Category: category, Unit: unit}
}
