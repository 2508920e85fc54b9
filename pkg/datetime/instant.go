package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
)

// Instant is a Gregorian calendar date with an optional time of day, always
// interpreted as UTC wall-clock time. The zero value is not a valid Instant;
// use NewInstant, ParseInstant or FromTime.
type Instant struct {
	year   int
	month  int
	day    int
	hour   int
	minute int
	second int
}

// NewInstant validates the components and returns the Instant they describe.
func NewInstant(year, month, day, hour, minute, second int) (Instant, error) {
	if year < 1 || year > 9999 {
		return Instant{}, calcerr.InvalidInput("year", year, "must be between 1 and 9999")
	}
	if month < 1 || month > 12 {
		return Instant{}, calcerr.InvalidInput("month", month, "must be between 1 and 12")
	}
	if dim := DaysInMonth(year, month); day < 1 || day > dim {
		return Instant{}, calcerr.InvalidInput("day", day, fmt.Sprintf("must be between 1 and %d for %04d-%02d", dim, year, month))
	}
	if hour < 0 || hour >= constants.HoursPerDay {
		return Instant{}, calcerr.InvalidInput("hour", hour, "must be between 0 and 23")
	}
	if minute < 0 || minute >= constants.MinutesPerHour {
		return Instant{}, calcerr.InvalidInput("minute", minute, "must be between 0 and 59")
	}
	if second < 0 || second >= constants.SecondsPerMinute {
		return Instant{}, calcerr.InvalidInput("second", second, "must be between 0 and 59")
	}
	return Instant{year: year, month: month, day: day, hour: hour, minute: minute, second: second}, nil
}

// MustInstant is NewInstant for known-good literals; it panics on error.
func MustInstant(year, month, day, hour, minute, second int) Instant {
	i, err := NewInstant(year, month, day, hour, minute, second)
	if err != nil {
		panic(err)
	}
	return i
}

// FromTime converts t to UTC and truncates it to whole seconds.
func FromTime(t time.Time) Instant {
	u := t.UTC()
	return Instant{
		year:   u.Year(),
		month:  int(u.Month()),
		day:    u.Day(),
		hour:   u.Hour(),
		minute: u.Minute(),
		second: u.Second(),
	}
}

// DaysInMonth returns the number of days in the given month. Months outside
// 1..12 are normalised by the calendar, so month 0 is December of year-1.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLeapYear reports whether year has a February 29.
func IsLeapYear(year int) bool {
	return DaysInMonth(year, 2) == 29
}

func (i Instant) Year() int   { return i.year }
func (i Instant) Month() int  { return i.month }
func (i Instant) Day() int    { return i.day }
func (i Instant) Hour() int   { return i.hour }
func (i Instant) Minute() int { return i.minute }
func (i Instant) Second() int { return i.second }

// Time returns the Instant as a UTC time.Time.
func (i Instant) Time() time.Time {
	return time.Date(i.year, time.Month(i.month), i.day, i.hour, i.minute, i.second, 0, time.UTC)
}

// Date returns the Instant with its time of day cleared.
func (i Instant) Date() Instant {
	return Instant{year: i.year, month: i.month, day: i.day}
}

// Before reports whether i is strictly earlier than other.
func (i Instant) Before(other Instant) bool {
	return i.Time().Before(other.Time())
}

// Equal reports whether i and other name the same second.
func (i Instant) Equal(other Instant) bool {
	return i == other
}

// String formats the Instant as 2006-01-02T15:04:05.
func (i Instant) String() string {
	return i.Time().Format(constants.DateTimeSecondsLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (i Instant) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseInstant.
func (i *Instant) UnmarshalText(text []byte) error {
	parsed, err := ParseInstant(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
