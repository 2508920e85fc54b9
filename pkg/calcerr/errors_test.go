package calcerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		others   []error
	}{
		{
			name:     "Invalid input",
			err:      InvalidInput("principal", -5.0, "must be greater than zero"),
			sentinel: ErrInvalidInput,
			others:   []error{ErrInvalidRange, ErrUnknownUnit},
		},
		{
			name:     "Invalid range",
			err:      &InvalidRangeError{Start: "2025-01-02", End: "2025-01-01"},
			sentinel: ErrInvalidRange,
			others:   []error{ErrInvalidInput, ErrUnknownUnit},
		},
		{
			name:     "Unknown unit",
			err:      UnknownUnit("length", "furlong"),
			sentinel: ErrUnknownUnit,
			others:   []error{ErrInvalidInput, ErrInvalidRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("calculation failed: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, expected true", wrapped, tt.sentinel)
			}
			for _, other := range tt.others {
				if errors.Is(wrapped, other) {
					t.Errorf("errors.Is(%v, %v) = true, expected false", wrapped, other)
				}
			}
		})
	}
}

func TestErrorsAsExtractsDetails(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", UnknownUnit("volume", "hogshead"))

	var unitErr *UnknownUnitError
	if !errors.As(err, &unitErr) {
		t.Fatalf("errors.As() failed to extract *UnknownUnitError from %v", err)
	}
	if unitErr.Category != "volume" || unitErr.Unit != "hogshead" {
		t.Errorf("unexpected details: %+v", unitErr)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"Input with value", InvalidInput("periods", 0, "must be positive"), "periods=0"},
		{"Input without value", InvalidInput("cashFlows", nil, "no cash flows"), "invalid input cashFlows: no cash flows"},
		{"Unknown category", UnknownUnit("speed", ""), `unknown category "speed"`},
		{"Unknown unit only", UnknownUnit("", "XYZ"), `unknown unit "XYZ"`},
		{"Range", &InvalidRangeError{Start: "b", End: "a"}, "start b is after end a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error() = %q, expected to contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}
