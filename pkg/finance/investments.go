// Package finance provides closed-form financial formulas.
package finance

import (
	"fmt"
	"math"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/mathutil"
)

func percentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// YearlyGrowth captures the computed values for a single year of compound growth.
type YearlyGrowth struct {
	Year         int     `json:"year"`
	StartBalance float64 `json:"startBalance"`
	Contribution float64 `json:"contribution"`
	Interest     float64 `json:"interest"`
	EndBalance   float64 `json:"endBalance"`
}

// GrowthSchedule is a year-by-year compound growth table.
type GrowthSchedule struct {
	Principal          float64        `json:"principal"`
	TotalContributions float64        `json:"totalContributions"`
	TotalInterest      float64        `json:"totalInterest"`
	FinalBalance       float64        `json:"finalBalance"`
	Years              []YearlyGrowth `json:"years"`
}

// CompoundInterest returns the future value of principal after years at
// annualRatePct compounded compoundsPerYear times a year:
// P·(1 + r/n)^(n·years).
func CompoundInterest(principal, annualRatePct, years float64, compoundsPerYear int) (float64, error) {
	if err := validateGrowth(principal, annualRatePct, years, compoundsPerYear); err != nil {
		return 0, err
	}
	n := float64(compoundsPerYear)
	return finiteResult("futureValue", principal*math.Pow(1+percentToDecimal(annualRatePct)/n, n*years))
}

// CompoundSchedule tabulates compound growth one year at a time. The
// annual contribution is deposited at the end of each year, after that
// year's interest.
func CompoundSchedule(principal, annualRatePct float64, years, compoundsPerYear int, annualContribution float64) (*GrowthSchedule, error) {
	if err := validateGrowth(principal, annualRatePct, float64(years), compoundsPerYear); err != nil {
		return nil, err
	}
	if !mathutil.IsFinite(annualContribution) || annualContribution < 0 {
		return nil, calcerr.InvalidInput("annualContribution", annualContribution, "must be zero or greater")
	}

	n := float64(compoundsPerYear)
	yearlyGrowth := math.Pow(1+percentToDecimal(annualRatePct)/n, n)

	schedule := &GrowthSchedule{
		Principal: principal,
		Years:     make([]YearlyGrowth, 0, years),
	}
	balance := principal
	for year := 1; year <= years; year++ {
		interest := balance*yearlyGrowth - balance
		row := YearlyGrowth{
			Year:         year,
			StartBalance: balance,
			Contribution: annualContribution,
			Interest:     interest,
			EndBalance:   balance + interest + annualContribution,
		}
		schedule.Years = append(schedule.Years, row)
		schedule.TotalContributions += annualContribution
		schedule.TotalInterest += interest
		balance = row.EndBalance
	}
	schedule.FinalBalance = balance
	if !mathutil.IsFinite(schedule.FinalBalance) || !mathutil.IsFinite(schedule.TotalInterest) {
		return nil, calcerr.InvalidInput("finalBalance", schedule.FinalBalance, "growth overflows for these terms")
	}

	return schedule, nil
}

func validateGrowth(principal, annualRatePct, years float64, compoundsPerYear int) error {
	if !mathutil.IsFinite(principal) || principal < 0 {
		return calcerr.InvalidInput("principal", principal, "must be zero or greater")
	}
	if compoundsPerYear <= 0 {
		return calcerr.InvalidInput("compoundsPerYear", compoundsPerYear, "must be greater than zero")
	}
	if !mathutil.IsFinite(years) || years < 0 || years > constants.MaxGrowthYears {
		return calcerr.InvalidInput("years", years, fmt.Sprintf("must be between 0 and %d", constants.MaxGrowthYears))
	}
	if !mathutil.IsFinite(annualRatePct) || percentToDecimal(annualRatePct)/float64(compoundsPerYear) <= -1 {
		return calcerr.InvalidInput("annualRatePct", annualRatePct, "must be a finite rate above -100% per period")
	}
	return nil
}
