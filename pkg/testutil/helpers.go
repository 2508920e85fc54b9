// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// FindBy returns a pointer to the first element of items for which match
// returns true, or nil if there is none.
func FindBy[T any](items []T, match func(T) bool) *T {
	for i := range items {
		if match(items[i]) {
			return &items[i]
		}
	}
	return nil
}

// InDelta reports whether got is within tolerance of expected.
func InDelta(got, expected, tolerance float64) bool {
	return math.Abs(got-expected) <= tolerance
}

// AssertInDelta fails the test when got is further than tolerance from expected.
func AssertInDelta(t testing.TB, label string, got, expected, tolerance float64) {
	t.Helper()
	if !InDelta(got, expected, tolerance) {
		t.Errorf("%s = %v, expected %v (tolerance %v, diff %v)", label, got, expected, tolerance, math.Abs(got-expected))
	}
}

// NewRand returns a deterministic random source for property tests.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
