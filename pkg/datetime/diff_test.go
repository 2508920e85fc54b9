package datetime

import (
	"errors"
	"testing"
	"time"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/testutil"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name      string
		start     Instant
		end       Instant
		expected  [6]int // years, months, days, hours, minutes, seconds
		totalDays int64
	}{
		{
			name:      "Leap day to first of March next year",
			start:     MustInstant(2000, 2, 29, 0, 0, 0),
			end:       MustInstant(2001, 3, 1, 0, 0, 0),
			expected:  [6]int{1, 0, 0, 0, 0, 0},
			totalDays: 366,
		},
		{
			name:      "Same instant",
			start:     MustInstant(2025, 6, 15, 10, 20, 30),
			end:       MustInstant(2025, 6, 15, 10, 20, 30),
			expected:  [6]int{0, 0, 0, 0, 0, 0},
			totalDays: 0,
		},
		{
			name:      "Time of day borrow across midnight",
			start:     MustInstant(2024, 3, 10, 22, 30, 15),
			end:       MustInstant(2024, 3, 11, 1, 15, 10),
			expected:  [6]int{0, 0, 0, 2, 44, 55},
			totalDays: 0,
		},
		{
			name:      "Day borrow uses month before end",
			start:     MustInstant(1990, 5, 20, 0, 0, 0),
			end:       MustInstant(2025, 10, 15, 0, 0, 0),
			expected:  [6]int{35, 4, 25, 0, 0, 0},
			totalDays: 12932,
		},
		{
			name:      "January end borrows previous December",
			start:     MustInstant(2023, 12, 15, 0, 0, 0),
			end:       MustInstant(2024, 1, 10, 0, 0, 0),
			expected:  [6]int{0, 0, 26, 0, 0, 0},
			totalDays: 26,
		},
		{
			name:      "Short February needs a second borrow",
			start:     MustInstant(2001, 1, 31, 0, 0, 0),
			end:       MustInstant(2001, 3, 1, 0, 0, 0),
			expected:  [6]int{0, 0, 29, 0, 0, 0},
			totalDays: 29,
		},
		{
			name:      "Leap February borrow",
			start:     MustInstant(2024, 1, 30, 0, 0, 0),
			end:       MustInstant(2024, 3, 1, 0, 0, 0),
			expected:  [6]int{0, 1, 0, 0, 0, 0},
			totalDays: 31,
		},
		{
			name:      "Exactly one year",
			start:     MustInstant(2023, 4, 1, 0, 0, 0),
			end:       MustInstant(2024, 4, 1, 0, 0, 0),
			expected:  [6]int{1, 0, 0, 0, 0, 0},
			totalDays: 366,
		},
		{
			name:      "Every unit borrows",
			start:     MustInstant(2020, 12, 31, 23, 59, 59),
			end:       MustInstant(2021, 1, 1, 0, 0, 0),
			expected:  [6]int{0, 0, 0, 0, 0, 1},
			totalDays: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Diff(tt.start, tt.end)
			if err != nil {
				t.Fatalf("Diff() error = %v", err)
			}
			got := [6]int{d.Years, d.Months, d.Days, d.Hours, d.Minutes, d.Seconds}
			if got != tt.expected {
				t.Errorf("Diff(%s, %s) = %v, expected %v", tt.start, tt.end, got, tt.expected)
			}
			if d.TotalDays != tt.totalDays {
				t.Errorf("Diff(%s, %s).TotalDays = %d, expected %d", tt.start, tt.end, d.TotalDays, tt.totalDays)
			}
			if back := d.AddTo(tt.start); !back.Equal(tt.end) {
				t.Errorf("AddTo(%s) = %s, expected %s", tt.start, back, tt.end)
			}
		})
	}
}

func TestDiffTotalsAreIndependentAggregates(t *testing.T) {
	start := MustInstant(2024, 3, 10, 22, 30, 15)
	end := MustInstant(2024, 3, 12, 1, 15, 10)

	d, err := Diff(start, end)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	const expectedSeconds = 86400 + 9895
	if d.TotalSeconds != expectedSeconds {
		t.Errorf("TotalSeconds = %d, expected %d", d.TotalSeconds, expectedSeconds)
	}
	if d.TotalMinutes != expectedSeconds/60 {
		t.Errorf("TotalMinutes = %d, expected %d", d.TotalMinutes, expectedSeconds/60)
	}
	if d.TotalHours != 26 {
		t.Errorf("TotalHours = %d, expected 26", d.TotalHours)
	}
	if d.TotalDays != 1 {
		t.Errorf("TotalDays = %d, expected 1", d.TotalDays)
	}
}

func TestDiffRejectsReversedRange(t *testing.T) {
	_, err := Diff(MustInstant(2025, 1, 2, 0, 0, 0), MustInstant(2025, 1, 1, 23, 59, 59))
	if !errors.Is(err, calcerr.ErrInvalidRange) {
		t.Fatalf("Diff() error = %v, expected ErrInvalidRange", err)
	}

	var rangeErr *calcerr.InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("errors.As() failed for %v", err)
	}
	if rangeErr.Start != "2025-01-02T00:00:00" {
		t.Errorf("InvalidRangeError.Start = %s", rangeErr.Start)
	}
}

func TestDiffRoundTripProperty(t *testing.T) {
	rng := testutil.NewRand(42)
	base := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	span := time.Date(2100, 12, 31, 23, 59, 59, 0, time.UTC).Unix() - base

	for i := 0; i < 5000; i++ {
		a := FromTime(time.Unix(base+rng.Int63n(span), 0))
		b := FromTime(time.Unix(base+rng.Int63n(span), 0))
		if b.Before(a) {
			a, b = b, a
		}

		d, err := Diff(a, b)
		if err != nil {
			t.Fatalf("Diff(%s, %s) error = %v", a, b, err)
		}
		if d.Months < 0 || d.Months > 11 || d.Days < 0 || d.Days > 30 ||
			d.Hours < 0 || d.Hours > 23 || d.Minutes < 0 || d.Minutes > 59 ||
			d.Seconds < 0 || d.Seconds > 59 || d.Years < 0 {
			t.Fatalf("Diff(%s, %s) produced non-normalized %+v", a, b, d)
		}
		if back := d.AddTo(a); !back.Equal(b) {
			t.Fatalf("Diff(%s, %s) = %+v does not round trip: got %s", a, b, d, back)
		}
		if d.TotalSeconds != b.Time().Unix()-a.Time().Unix() {
			t.Fatalf("TotalSeconds mismatch for %s -> %s", a, b)
		}
	}
}

func TestAge(t *testing.T) {
	d, err := Age(MustInstant(1990, 5, 20, 0, 0, 0), MustInstant(2025, 10, 15, 0, 0, 0))
	if err != nil {
		t.Fatalf("Age() error = %v", err)
	}
	if d.Years != 35 || d.Months != 4 || d.Days != 25 {
		t.Errorf("Age() = %dy %dm %dd, expected 35y 4m 25d", d.Years, d.Months, d.Days)
	}

	if _, err := Age(MustInstant(2030, 1, 1, 0, 0, 0), MustInstant(2025, 1, 1, 0, 0, 0)); !errors.Is(err, calcerr.ErrInvalidRange) {
		t.Errorf("Age() with future birth error = %v, expected ErrInvalidRange", err)
	}
}

func TestNextBirthday(t *testing.T) {
	tests := []struct {
		name     string
		birth    Instant
		asOf     Instant
		expected string
		days     int
	}{
		{
			name:     "Later this year is already past",
			birth:    MustInstant(1990, 5, 20, 0, 0, 0),
			asOf:     MustInstant(2025, 10, 15, 0, 0, 0),
			expected: "2026-05-20T00:00:00",
			days:     217,
		},
		{
			name:     "Birthday is today",
			birth:    MustInstant(1990, 10, 15, 0, 0, 0),
			asOf:     MustInstant(2025, 10, 15, 18, 30, 0),
			expected: "2025-10-15T00:00:00",
			days:     0,
		},
		{
			name:     "Leap day birth in a common year",
			birth:    MustInstant(2000, 2, 29, 0, 0, 0),
			asOf:     MustInstant(2025, 1, 1, 0, 0, 0),
			expected: "2025-02-28T00:00:00",
			days:     58,
		},
		{
			name:     "Leap day birth in a leap year",
			birth:    MustInstant(2000, 2, 29, 0, 0, 0),
			asOf:     MustInstant(2028, 2, 1, 0, 0, 0),
			expected: "2028-02-29T00:00:00",
			days:     28,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, days, err := NextBirthday(tt.birth, tt.asOf)
			if err != nil {
				t.Fatalf("NextBirthday() error = %v", err)
			}
			if next.String() != tt.expected {
				t.Errorf("NextBirthday() = %s, expected %s", next, tt.expected)
			}
			if days != tt.days {
				t.Errorf("NextBirthday() days = %d, expected %d", days, tt.days)
			}
		})
	}
}
