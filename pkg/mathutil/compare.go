// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/calckit/pkg/constants"
)

// RelativelyEqual checks if two values agree to within a tolerance scaled
// by the larger magnitude. Values near zero fall back to an absolute check.
func RelativelyEqual(val1, val2, tolerance float64) bool {
	scale := math.Max(math.Abs(val1), math.Abs(val2))
	if scale < 1 {
		scale = 1
	}
	return math.Abs(val1-val2) <= tolerance*scale
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// PercentOf calculates what percentage value is of total. A zero total yields 0.
func PercentOf(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
