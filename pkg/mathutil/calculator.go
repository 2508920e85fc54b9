package mathutil

import (
	"math"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
)

// Factorial returns n! for 0 <= n <= 170. Larger n overflow a float64.
func Factorial(n int) (float64, error) {
	if n < 0 {
		return 0, calcerr.InvalidInput("n", n, "factorial is undefined for negative numbers")
	}
	if n > constants.MaxFactorialInput {
		return 0, calcerr.InvalidInput("n", n, "factorial overflows above 170")
	}
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result, nil
}

// SquareRoot returns the principal square root of x, which must be >= 0.
func SquareRoot(x float64) (float64, error) {
	if !IsFinite(x) {
		return 0, calcerr.InvalidInput("x", x, "must be a finite number")
	}
	if x < 0 {
		return 0, calcerr.InvalidInput("x", x, "square root of a negative number")
	}
	return math.Sqrt(x), nil
}

// PercentChange is the change from oldValue to newValue as a percentage of
// oldValue.
func PercentChange(oldValue, newValue float64) (float64, error) {
	if oldValue == 0 {
		return 0, calcerr.InvalidInput("oldValue", oldValue, "percent change from zero is undefined")
	}
	return (newValue - oldValue) / math.Abs(oldValue) * constants.PercentageMultiplier, nil
}
