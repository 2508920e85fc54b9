package finance

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/mathutil"
)

// NPV returns the net present value of an investment: the discounted cash
// flows, one per period starting one period out, less the initial outlay.
func NPV(initialInvestment float64, cashFlows []float64, discountRatePct float64) (float64, error) {
	if !mathutil.IsFinite(initialInvestment) {
		return 0, calcerr.InvalidInput("initialInvestment", initialInvestment, "must be a finite number")
	}
	if len(cashFlows) == 0 {
		return 0, calcerr.InvalidInput("cashFlows", nil, "at least one cash flow is required")
	}
	rate := percentToDecimal(discountRatePct)
	if !mathutil.IsFinite(rate) || rate <= -1 {
		return 0, calcerr.InvalidInput("discountRatePct", discountRatePct, "must be a finite rate above -100%")
	}

	npv := -initialInvestment
	discount := 1.0
	for i, cf := range cashFlows {
		if !mathutil.IsFinite(cf) {
			return 0, calcerr.InvalidInput("cashFlows", cf, "cash flow "+strconv.Itoa(i+1)+" is not a finite number")
		}
		discount *= 1 + rate
		npv += cf / discount
	}
	return finiteResult("npv", npv)
}

// finiteResult rejects a result that overflowed float64.
func finiteResult(field string, value float64) (float64, error) {
	if !mathutil.IsFinite(value) {
		return 0, calcerr.InvalidInput(field, value, "result is out of range")
	}
	return value, nil
}

// ParseCashFlows splits a comma or whitespace separated list of amounts.
// Entries that are not finite numbers are dropped.
func ParseCashFlows(raw string) []float64 {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	flows := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil || !mathutil.IsFinite(value) {
			continue
		}
		flows = append(flows, value)
	}
	return flows
}

// ROI returns the return on investment as a percentage of investment.
func ROI(investment, totalReturn float64) (float64, error) {
	if !mathutil.IsFinite(investment) || investment <= 0 {
		return 0, calcerr.InvalidInput("investment", investment, "must be greater than zero")
	}
	if !mathutil.IsFinite(totalReturn) {
		return 0, calcerr.InvalidInput("totalReturn", totalReturn, "must be a finite number")
	}
	return finiteResult("roi", (totalReturn-investment)/investment*constants.PercentageMultiplier)
}

// AnnualizedROI returns the compound annual growth rate, in percent, that
// turns investment into totalReturn over years.
func AnnualizedROI(investment, totalReturn, years float64) (float64, error) {
	if !mathutil.IsFinite(investment) || investment <= 0 {
		return 0, calcerr.InvalidInput("investment", investment, "must be greater than zero")
	}
	if !mathutil.IsFinite(totalReturn) || totalReturn <= investment {
		return 0, calcerr.InvalidInput("totalReturn", totalReturn, "must exceed the investment")
	}
	if !mathutil.IsFinite(years) || years == 0 {
		return 0, calcerr.InvalidInput("years", years, "must be a non-zero number")
	}
	return finiteResult("annualizedRoi", (math.Pow(totalReturn/investment, 1/years)-1)*constants.PercentageMultiplier)
}
