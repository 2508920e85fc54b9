package format

import (
	"testing"

	"github.com/iwvelando/calckit/pkg/datetime"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{1234.567, "$1,234.57"},
		{-1234.56, "-$1,234.56"},
		{1000000, "$1,000,000.00"},
		{999.999, "$1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := Currency(tt.amount); result != tt.expected {
				t.Errorf("Currency(%v) = %q, expected %q", tt.amount, result, tt.expected)
			}
		})
	}
}

func TestNumericAndCodeCurrency(t *testing.T) {
	if result := NumericCurrency(-98765.4); result != "-98,765.40" {
		t.Errorf("NumericCurrency() = %q, expected -98,765.40", result)
	}
	if result := CodeCurrency(1234.5, "EUR"); result != "1,234.50 EUR" {
		t.Errorf("CodeCurrency() = %q, expected 1,234.50 EUR", result)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{14.86983549970351, "14.87%"},
		{-12.5, "-12.50%"},
		{0, "0.00%"},
	}

	for _, tt := range tests {
		if result := Percent(tt.value); result != tt.expected {
			t.Errorf("Percent(%v) = %q, expected %q", tt.value, result, tt.expected)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		value    float64
		places   int
		expected string
	}{
		{2432902008176640000, 0, "2,432,902,008,176,640,000"},
		{1234.5678, 3, "1,234.568"},
		{-1500, 0, "-1,500"},
		{-0.001, 2, "0.00"},
		{42, -1, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if result := Number(tt.value, tt.places); result != tt.expected {
				t.Errorf("Number(%v, %d) = %q, expected %q", tt.value, tt.places, result, tt.expected)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration datetime.Duration
		expected string
	}{
		{"Zero", datetime.Duration{}, "0 seconds"},
		{"Singular units", datetime.Duration{Years: 1, Months: 1, Days: 1}, "1 year, 1 month, 1 day"},
		{"Skips zero components", datetime.Duration{Years: 35, Days: 12, Seconds: 5}, "35 years, 12 days, 5 seconds"},
		{"Time only", datetime.Duration{Hours: 2, Minutes: 30}, "2 hours, 30 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Duration(tt.duration); result != tt.expected {
				t.Errorf("Duration() = %q, expected %q", result, tt.expected)
			}
		})
	}
}
