package datetime

import (
	"time"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
)

// Duration is the calendar-aware difference between two Instants.
//
// The normalized components and the totals are computed independently: the
// components come from borrow propagation over calendar fields, the totals
// from epoch subtraction. They agree in the sense that AddTo(start) on the
// components reproduces end.
type Duration struct {
	Years   int `json:"years"`
	Months  int `json:"months"`
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`

	TotalDays    int64 `json:"totalDays"`
	TotalHours   int64 `json:"totalHours"`
	TotalMinutes int64 `json:"totalMinutes"`
	TotalSeconds int64 `json:"totalSeconds"`
}

// IsZero reports whether the duration spans no time at all.
func (d Duration) IsZero() bool {
	return d.TotalSeconds == 0
}

// Diff computes the duration from start to end. start must not be after end.
//
// Negative components borrow from the next larger unit. A negative day count
// borrows the length of the month preceding end's month, walking further
// back through end's calendar if one month is not enough (a 31st start
// against a short February).
func Diff(start, end Instant) (Duration, error) {
	if end.Before(start) {
		return Duration{}, &calcerr.InvalidRangeError{Start: start.String(), End: end.String()}
	}

	years := end.year - start.year
	months := end.month - start.month
	days := end.day - start.day
	hours := end.hour - start.hour
	minutes := end.minute - start.minute
	seconds := end.second - start.second

	if seconds < 0 {
		minutes--
		seconds += constants.SecondsPerMinute
	}
	if minutes < 0 {
		hours--
		minutes += constants.MinutesPerHour
	}
	if hours < 0 {
		days--
		hours += constants.HoursPerDay
	}

	borrowYear, borrowMonth := end.year, end.month
	for days < 0 {
		borrowMonth--
		if borrowMonth < 1 {
			borrowMonth = 12
			borrowYear--
		}
		months--
		days += DaysInMonth(borrowYear, borrowMonth)
	}
	for months < 0 {
		years--
		months += constants.MonthsPerYear
	}

	totalSeconds := end.Time().Unix() - start.Time().Unix()

	return Duration{
		Years:        years,
		Months:       months,
		Days:         days,
		Hours:        hours,
		Minutes:      minutes,
		Seconds:      seconds,
		TotalDays:    totalSeconds / constants.SecondsPerDay,
		TotalHours:   totalSeconds / constants.SecondsPerHour,
		TotalMinutes: totalSeconds / constants.SecondsPerMinute,
		TotalSeconds: totalSeconds,
	}, nil
}

// AddTo applies the normalized components to start in a single calendar
// normalisation. For any d returned by Diff(start, end), d.AddTo(start)
// equals end.
func (d Duration) AddTo(start Instant) Instant {
	return FromTime(time.Date(
		start.year+d.Years,
		time.Month(start.month+d.Months),
		start.day+d.Days,
		start.hour+d.Hours,
		start.minute+d.Minutes,
		start.second+d.Seconds,
		0, time.UTC,
	))
}

// Age is the duration from birth to asOf.
func Age(birth, asOf Instant) (Duration, error) {
	return Diff(birth, asOf)
}

// NextBirthday returns the first anniversary of birth on or after asOf's
// date, together with the whole days remaining until it. February 29
// birthdays fall on February 28 in common years.
func NextBirthday(birth, asOf Instant) (Instant, int, error) {
	today := asOf.Date()
	if today.Before(birth.Date()) {
		return Instant{}, 0, &calcerr.InvalidRangeError{Start: birth.String(), End: asOf.String()}
	}

	next := anniversary(birth, today.year)
	if next.Before(today) {
		next = anniversary(birth, today.year+1)
	}

	days := int((next.Time().Unix() - today.Time().Unix()) / constants.SecondsPerDay)
	return next, days, nil
}

func anniversary(birth Instant, year int) Instant {
	day := birth.day
	if dim := DaysInMonth(year, birth.month); day > dim {
		day = dim
	}
	return Instant{year: year, month: birth.month, day: day}
}
