package loans

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCalculateExtraPrincipal(t *testing.T) {
	extras := []ExtraPayment{
		{Name: "Monthly Extra", Amount: 500, StartPeriod: 1, EndPeriod: 3},
		{Name: "One Time Extra", Amount: 5000, StartPeriod: 2, EndPeriod: 2},
		{Name: "Quarterly Extra", Amount: 1000, StartPeriod: 3, Frequency: 3},
	}

	tests := []struct {
		name     string
		period   int
		expected float64
	}{
		{"Period with monthly only", 1, 500},
		{"Period with monthly and one-time", 2, 5500},
		{"Period with monthly and quarterly", 3, 1500},
		{"Period with no extra payments", 4, 0},
		{"Period with quarterly only", 6, 1000},
		{"Quarterly runs to end of term", 300, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateExtraPrincipal(extras, tt.period)
			if result != tt.expected {
				t.Errorf("CalculateExtraPrincipal() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestAmortizationScheduleGenerator_GenerateSchedule(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	loan := &LoanConfig{
		Name:               "Test Loan",
		StartDate:          "2025-01",
		Principal:          100000,
		DownPayment:        20000,
		AnnualInterestRate: 6.0,
		Term:               60, // 5 years
	}

	schedule, err := generator.GenerateSchedule(loan)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	if loan.PaymentsPerYear != 12 {
		t.Errorf("PaymentsPerYear default = %d, expected 12", loan.PaymentsPerYear)
	}
	if schedule.Principal != 80000 {
		t.Errorf("Schedule principal = %.2f, expected the financed 80000", schedule.Principal)
	}
	if len(schedule.Rows) != 60 {
		t.Fatalf("GenerateSchedule() produced %d rows, expected 60", len(schedule.Rows))
	}

	first := schedule.Rows[0]
	if first.Date != "2025-01" {
		t.Errorf("first row date = %s, expected 2025-01", first.Date)
	}
	testutil.AssertInDelta(t, "first interest", first.Interest, 400, 1e-9)
	testutil.AssertInDelta(t, "payment", schedule.Payment, 1546.62, 0.01)

	if last := schedule.Rows[59]; last.Date != "2029-12" || last.Balance != 0 {
		t.Errorf("last row = %+v, expected 2029-12 with zero balance", last)
	}
}

func TestAmortizationScheduleGenerator_QuarterlyDates(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)

	loan := &LoanConfig{
		Principal:          10000,
		AnnualInterestRate: 8,
		Term:               8,
		PaymentsPerYear:    4,
		StartDate:          "2025-11",
	}

	schedule, err := generator.GenerateSchedule(loan)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	expected := []string{"2025-11", "2026-02", "2026-05", "2026-08", "2026-11", "2027-02", "2027-05", "2027-08"}
	for i, date := range expected {
		if schedule.Rows[i].Date != date {
			t.Errorf("Rows[%d].Date = %s, expected %s", i, schedule.Rows[i].Date, date)
		}
	}
	testutil.AssertInDelta(t, "PeriodicRate", schedule.PeriodicRate, 0.02, 1e-12)
}

func TestAmortizationScheduleGenerator_ExtraPrincipalPaysOffEarly(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	generator := NewAmortizationScheduleGenerator(zap.New(core))

	loan := &LoanConfig{
		Name:               "Extra Principal Loan",
		Principal:          80000,
		AnnualInterestRate: 6.0,
		Term:               60,
		ExtraPrincipal:     []ExtraPayment{{Name: "Monthly", Amount: 1000, StartPeriod: 1}},
	}

	schedule, err := generator.GenerateSchedule(loan)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	if len(schedule.Rows) != 35 {
		t.Errorf("GenerateSchedule() produced %d rows, expected payoff in period 35", len(schedule.Rows))
	}
	if schedule.FinalBalance() != 0 {
		t.Errorf("FinalBalance() = %v, expected 0", schedule.FinalBalance())
	}
	testutil.AssertInDelta(t, "TotalPrincipal", schedule.TotalPrincipal, 80000, 1e-6)

	first := schedule.Rows[0]
	if first.Extra != 1000 {
		t.Errorf("first row extra = %.2f, expected 1000", first.Extra)
	}
	testutil.AssertInDelta(t, "first payment", first.Payment, schedule.Payment+1000, 1e-9)

	if logs.FilterMessageSnippet("paid off after 35 of 60 periods").Len() != 1 {
		t.Errorf("expected an early payoff log entry")
	}
}

func TestAmortizationScheduleGenerator_CapsOverpayment(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	generator := NewAmortizationScheduleGenerator(zap.New(core))

	loan := &LoanConfig{
		Name:               "Lump Sum Loan",
		Principal:          80000,
		AnnualInterestRate: 6.0,
		Term:               60,
		ExtraPrincipal:     []ExtraPayment{{Name: "Lump sum", Amount: 100000, StartPeriod: 6}},
	}

	schedule, err := generator.GenerateSchedule(loan)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	if len(schedule.Rows) != 6 {
		t.Fatalf("GenerateSchedule() produced %d rows, expected payoff in period 6", len(schedule.Rows))
	}

	payoff := schedule.Rows[5]
	if payoff.Balance != 0 {
		t.Errorf("payoff balance = %v, expected 0", payoff.Balance)
	}
	if payoff.Extra >= 100000 {
		t.Errorf("payoff extra = %.2f, expected it capped to the outstanding balance", payoff.Extra)
	}
	previous := schedule.Rows[4].Balance
	testutil.AssertInDelta(t, "payoff principal", payoff.Principal, previous, 1e-6)

	capped := logs.FilterMessage("Capping extra principal payment to prevent overpayment")
	if capped.Len() != 1 {
		t.Fatalf("expected one capping log entry, got %d", capped.Len())
	}
	if period, ok := capped.All()[0].ContextMap()["period"]; !ok || period != int64(6) {
		t.Errorf("capping log period = %v, expected 6", period)
	}
}

func TestAmortizationScheduleGenerator_InvalidLoan(t *testing.T) {
	tests := []struct {
		name  string
		loan  LoanConfig
		field string
	}{
		{"Zero principal", LoanConfig{Principal: 0, AnnualInterestRate: 5, Term: 12}, "principal"},
		{"Down payment covers principal", LoanConfig{Principal: 50000, DownPayment: 50000, AnnualInterestRate: 5, Term: 60}, "downPayment"},
		{"Negative rate", LoanConfig{Principal: 1000, AnnualInterestRate: -1, Term: 12}, "annualInterestRate"},
		{"NaN rate", LoanConfig{Principal: 1000, AnnualInterestRate: math.NaN(), Term: 12}, "annualInterestRate"},
		{"Zero term", LoanConfig{Principal: 1000, AnnualInterestRate: 5}, "term"},
		{"Term too long", LoanConfig{Principal: 1000, AnnualInterestRate: 5, Term: 1201}, "term"},
		{"Payment overflows", LoanConfig{Principal: 1e308, AnnualInterestRate: 1e300, Term: 12}, "periodicRate"},
		{"Bad start date", LoanConfig{Principal: 1000, AnnualInterestRate: 5, Term: 12, StartDate: "2025-13"}, "startDate"},
		{"Undated frequency", LoanConfig{Principal: 1000, AnnualInterestRate: 5, Term: 12, PaymentsPerYear: 26, StartDate: "2025-01"}, "paymentsPerYear"},
		{"Negative extra", LoanConfig{Principal: 1000, AnnualInterestRate: 5, Term: 12,
			ExtraPrincipal: []ExtraPayment{{Amount: -5, StartPeriod: 1}}}, "extraPrincipal[0].amount"},
		{"Extra before first period", LoanConfig{Principal: 1000, AnnualInterestRate: 5, Term: 12,
			ExtraPrincipal: []ExtraPayment{{Amount: 5}}}, "extraPrincipal[0].startPeriod"},
		{"Extra ends before it starts", LoanConfig{Principal: 1000, AnnualInterestRate: 5, Term: 12,
			ExtraPrincipal: []ExtraPayment{{Amount: 5, StartPeriod: 4, EndPeriod: 2}}}, "extraPrincipal[0].endPeriod"},
	}

	generator := NewAmortizationScheduleGenerator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := tt.loan
			schedule, err := generator.GenerateSchedule(&loan)
			if schedule != nil {
				t.Errorf("GenerateSchedule() returned a schedule for an invalid loan")
			}
			var inputErr *calcerr.InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("GenerateSchedule() error = %v, expected InvalidInputError", err)
			}
			if inputErr.Field != tt.field {
				t.Errorf("InvalidInputError.Field = %s, expected %s", inputErr.Field, tt.field)
			}
		})
	}
}

func TestNewAmortizationScheduleGenerator(t *testing.T) {
	logger := zap.NewNop()
	generator := NewAmortizationScheduleGenerator(logger)

	if generator == nil {
		t.Fatal("NewAmortizationScheduleGenerator() returned nil")
	}
	if generator.logger != logger {
		t.Error("NewAmortizationScheduleGenerator() logger not set correctly")
	}
	if NewAmortizationScheduleGenerator(nil).logger == nil {
		t.Error("NewAmortizationScheduleGenerator(nil) should fall back to a no-op logger")
	}
}
