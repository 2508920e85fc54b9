// Package datetime provides calendar arithmetic for instants, durations and
// month-stepped schedules.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
)

const (
	// DateTimeLayout is the month-granular format used to label schedule rows.
	DateTimeLayout = constants.DateTimeLayout
)

// instantLayouts are tried in order by ParseInstant.
var instantLayouts = []string{
	constants.DateTimeSecondsLayout,
	constants.DateTimeSpaceLayout,
	constants.DateLayout,
}

// ParseInstant parses a date or date-time string into an Instant. Accepted
// forms are 2006-01-02, 2006-01-02T15:04:05 and 2006-01-02 15:04:05.
func ParseInstant(raw string) (Instant, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Instant{}, calcerr.InvalidInput("date", raw, "must not be empty")
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return NewInstant(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
		}
	}
	return Instant{}, calcerr.InvalidInput("date", raw, "expected YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS")
}

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}
