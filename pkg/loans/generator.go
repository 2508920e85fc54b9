package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/datetime"
	"github.com/iwvelando/calckit/pkg/mathutil"
	"go.uber.org/zap"
)

// ExtraPayment is a recurring extra principal payment. Periods are 1-based;
// an EndPeriod of 0 runs to the end of the term and a Frequency of 0 means
// every period.
type ExtraPayment struct {
	Name        string  `json:"name,omitempty" yaml:"name,omitempty"`
	Amount      float64 `json:"amount" yaml:"amount"`
	StartPeriod int     `json:"startPeriod" yaml:"startPeriod"`
	EndPeriod   int     `json:"endPeriod,omitempty" yaml:"endPeriod,omitempty"`
	Frequency   int     `json:"frequency,omitempty" yaml:"frequency,omitempty"`
}

// AppliesTo reports whether the payment falls due in period.
func (e ExtraPayment) AppliesTo(period int) bool {
	if period < e.StartPeriod {
		return false
	}
	if e.EndPeriod > 0 && period > e.EndPeriod {
		return false
	}
	frequency := e.Frequency
	if frequency <= 0 {
		frequency = 1
	}
	return (period-e.StartPeriod)%frequency == 0
}

// LoanConfig represents loan calculator input.
type LoanConfig struct {
	Name               string         `json:"name,omitempty"`
	Principal          float64        `json:"principal"`
	DownPayment        float64        `json:"downPayment,omitempty"`
	AnnualInterestRate float64        `json:"annualInterestRate"` // percent
	Term               int            `json:"term"`               // periods
	PaymentsPerYear    int            `json:"paymentsPerYear,omitempty"`
	StartDate          string         `json:"startDate,omitempty"` // YYYY-MM of the first payment
	ExtraPrincipal     []ExtraPayment `json:"extraPrincipal,omitempty"`
}

// Validate checks the loan terms and fills in defaults.
func (loan *LoanConfig) Validate() error {
	if loan.PaymentsPerYear == 0 {
		loan.PaymentsPerYear = constants.DefaultPaymentsPerYear
	}
	if !mathutil.IsFinite(loan.Principal) || loan.Principal <= 0 {
		return calcerr.InvalidInput("principal", loan.Principal, "must be greater than zero")
	}
	if !mathutil.IsFinite(loan.DownPayment) || loan.DownPayment < 0 || loan.DownPayment >= loan.Principal {
		return calcerr.InvalidInput("downPayment", loan.DownPayment, "must be at least zero and less than the principal")
	}
	if !mathutil.IsFinite(loan.AnnualInterestRate) || loan.AnnualInterestRate < 0 {
		return calcerr.InvalidInput("annualInterestRate", loan.AnnualInterestRate, "must be zero or greater")
	}
	if loan.Term <= 0 || loan.Term > constants.MaxAmortizationPeriods {
		return calcerr.InvalidInput("term", loan.Term, fmt.Sprintf("must be between 1 and %d", constants.MaxAmortizationPeriods))
	}
	if loan.PaymentsPerYear < 0 || loan.PaymentsPerYear > 365 {
		return calcerr.InvalidInput("paymentsPerYear", loan.PaymentsPerYear, "must be between 1 and 365")
	}
	if loan.StartDate != "" {
		if _, err := time.Parse(datetime.DateTimeLayout, loan.StartDate); err != nil {
			return calcerr.InvalidInput("startDate", loan.StartDate, "expected YYYY-MM")
		}
		if constants.MonthsPerYear%loan.PaymentsPerYear != 0 {
			return calcerr.InvalidInput("paymentsPerYear", loan.PaymentsPerYear, "dated schedules need a frequency that divides 12")
		}
	}
	for i, extra := range loan.ExtraPrincipal {
		if !mathutil.IsFinite(extra.Amount) || extra.Amount < 0 {
			return calcerr.InvalidInput(fmt.Sprintf("extraPrincipal[%d].amount", i), extra.Amount, "must be zero or greater")
		}
		if extra.StartPeriod < 1 {
			return calcerr.InvalidInput(fmt.Sprintf("extraPrincipal[%d].startPeriod", i), extra.StartPeriod, "must be at least 1")
		}
		if extra.EndPeriod != 0 && extra.EndPeriod < extra.StartPeriod {
			return calcerr.InvalidInput(fmt.Sprintf("extraPrincipal[%d].endPeriod", i), extra.EndPeriod, "must not precede startPeriod")
		}
	}
	return nil
}

// Financed is the amount borrowed after the down payment.
func (loan *LoanConfig) Financed() float64 {
	return loan.Principal - loan.DownPayment
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete amortization schedule for a loan.
// Extra principal payments are capped at the outstanding balance and the
// schedule ends early once the balance reaches zero.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan *LoanConfig) (*AmortizationSchedule, error) {
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	rate := PeriodicRate(loan.AnnualInterestRate, loan.PaymentsPerYear)
	if err := validateTerms(loan.Financed(), rate, loan.Term); err != nil {
		return nil, err
	}
	extra := func(period int, available float64) float64 {
		requested := CalculateExtraPrincipal(loan.ExtraPrincipal, period)
		if requested > available {
			g.logger.Debug("Capping extra principal payment to prevent overpayment",
				zap.String("op", "loans.GenerateSchedule"),
				zap.String("loan", loan.Name),
				zap.Int("period", period),
				zap.Float64("requested", requested),
				zap.Float64("capped_to_balance", available),
			)
		} else if requested > 0 {
			g.logger.Debug(fmt.Sprintf("period %d: applying extra principal payment %.2f for loan %s",
				period, requested, loan.Name),
				zap.String("op", "loans.GenerateSchedule"),
			)
		}
		return requested
	}

	schedule := amortize(loan.Financed(), rate, loan.Term, extra)

	if n := len(schedule.Rows); n < loan.Term {
		g.logger.Debug(fmt.Sprintf("loan %s paid off after %d of %d periods", loan.Name, n, loan.Term),
			zap.String("op", "loans.GenerateSchedule"),
		)
	}

	if loan.StartDate != "" {
		monthsPerPeriod := constants.MonthsPerYear / loan.PaymentsPerYear
		for i := range schedule.Rows {
			date, err := datetime.OffsetDate(loan.StartDate, datetime.DateTimeLayout, i*monthsPerPeriod)
			if err != nil {
				return nil, err
			}
			schedule.Rows[i].Date = date
		}
	}

	return schedule, nil
}

// CalculateExtraPrincipal calculates the total extra principal payment due in a period
func CalculateExtraPrincipal(extraPrincipalPayments []ExtraPayment, period int) float64 {
	amount := 0.00
	for _, extra := range extraPrincipalPayments {
		if extra.AppliesTo(period) {
			amount += extra.Amount
		}
	}
	return amount
}
