// Package loans provides fixed-payment amortization schedules.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/mathutil"
)

// Row holds the values for a given payment period.
type Row struct {
	Period    int     `json:"period"`
	Date      string  `json:"date,omitempty"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Extra     float64 `json:"extra,omitempty"`
	Balance   float64 `json:"balance"`
}

// AmortizationSchedule is the ordered list of payment rows for a loan plus
// its summary totals.
type AmortizationSchedule struct {
	Principal      float64 `json:"principal"`
	PeriodicRate   float64 `json:"periodicRate"`
	Periods        int     `json:"periods"`
	Payment        float64 `json:"payment"`
	TotalPaid      float64 `json:"totalPaid"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	Rows           []Row   `json:"rows"`
}

// FinalBalance returns the balance after the last row, or the principal if
// the schedule is empty.
func (s *AmortizationSchedule) FinalBalance() float64 {
	if len(s.Rows) == 0 {
		return s.Principal
	}
	return s.Rows[len(s.Rows)-1].Balance
}

// PeriodicPayment calculates the fixed payment that retires principal over
// periods at periodicRate using the standard annuity formula. A zero rate
// divides the principal evenly.
func PeriodicPayment(principal, periodicRate float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if periodicRate == 0 {
		return principal / float64(periods)
	}
	growth := math.Pow(1+periodicRate, float64(periods))
	if growth-1 == 0 {
		// rate too small to register in float64; treat as interest-free
		return principal / float64(periods)
	}
	payment := principal * periodicRate * growth / (growth - 1)
	if math.IsInf(payment, 0) || math.IsNaN(payment) {
		// P·r/(1 - (1+r)^-n), which tends to P·r as growth overflows
		return principal * periodicRate / (1 - 1/growth)
	}
	return payment
}

// PeriodicRate converts an annual percentage rate to a per-period decimal
// rate for the given payment frequency.
func PeriodicRate(annualInterestRate float64, paymentsPerYear int) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * float64(paymentsPerYear))
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64, paymentsPerYear int) float64 {
	return remainingPrincipal * PeriodicRate(annualInterestRate, paymentsPerYear)
}

// Schedule produces the fixed-payment amortization schedule for principal
// repaid over periods at periodicRate (a decimal, 0.01 = 1% per period).
//
// Every row pays interest on the opening balance and applies the rest of the
// fixed payment to principal. The final row retires whatever balance is left
// so the schedule always ends at exactly zero; its payment may differ from
// the fixed payment by floating-point residue.
func Schedule(principal, periodicRate float64, periods int) (*AmortizationSchedule, error) {
	if err := validateTerms(principal, periodicRate, periods); err != nil {
		return nil, err
	}
	return amortize(principal, periodicRate, periods, nil), nil
}

func validateTerms(principal, periodicRate float64, periods int) error {
	if !mathutil.IsFinite(principal) || principal <= 0 {
		return calcerr.InvalidInput("principal", principal, "must be greater than zero")
	}
	if !mathutil.IsFinite(periodicRate) || periodicRate < 0 {
		return calcerr.InvalidInput("periodicRate", periodicRate, "must be zero or greater")
	}
	if periods <= 0 || periods > constants.MaxAmortizationPeriods {
		return calcerr.InvalidInput("periods", periods, fmt.Sprintf("must be between 1 and %d", constants.MaxAmortizationPeriods))
	}
	if !mathutil.IsFinite(PeriodicPayment(principal, periodicRate, periods)) {
		return calcerr.InvalidInput("periodicRate", periodicRate, "payment overflows for this principal and rate")
	}
	return nil
}

// extraFunc returns the extra principal requested for a period and may
// observe the amount actually applied after capping.
type extraFunc func(period int, available float64) float64

func amortize(principal, periodicRate float64, periods int, extra extraFunc) *AmortizationSchedule {
	payment := PeriodicPayment(principal, periodicRate, periods)
	schedule := &AmortizationSchedule{
		Principal:    principal,
		PeriodicRate: periodicRate,
		Periods:      periods,
		Payment:      payment,
		Rows:         make([]Row, 0, periods),
	}

	balance := principal
	for period := 1; period <= periods && balance > 0; period++ {
		interest := balance * periodicRate
		principalPortion := payment - interest
		if period == periods || principalPortion > balance {
			principalPortion = balance
		}
		if principalPortion < 0 {
			principalPortion = 0
		}
		remaining := math.Max(0, balance-principalPortion)

		applied := 0.0
		if extra != nil && remaining > 0 {
			applied = extra(period, remaining)
			if applied >= remaining {
				applied = remaining
				remaining = 0
			} else {
				remaining -= applied
			}
		}

		row := Row{
			Period:    period,
			Payment:   principalPortion + applied + interest,
			Principal: principalPortion + applied,
			Interest:  interest,
			Extra:     applied,
			Balance:   remaining,
		}
		schedule.Rows = append(schedule.Rows, row)
		schedule.TotalPaid += row.Payment
		schedule.TotalInterest += row.Interest
		schedule.TotalPrincipal += row.Principal
		balance = remaining
	}

	return schedule
}
