package validation

import (
	"strconv"
	"strings"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/datetime"
	"github.com/iwvelando/calckit/pkg/mathutil"
)

// ParseFloat parses raw as a finite number. Surrounding whitespace,
// thousands separators and a leading currency sign are tolerated.
func ParseFloat(field, raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if cleaned == "" {
		return 0, calcerr.InvalidInput(field, raw, "a number is required")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || !mathutil.IsFinite(value) {
		return 0, calcerr.InvalidInput(field, raw, "not a finite number")
	}
	return value, nil
}

// ParsePositive parses raw as a number greater than zero.
func ParsePositive(field, raw string) (float64, error) {
	value, err := ParseFloat(field, raw)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, calcerr.InvalidInput(field, raw, "must be greater than zero")
	}
	return value, nil
}

// ParseNonNegative parses raw as a number that is zero or greater.
func ParseNonNegative(field, raw string) (float64, error) {
	value, err := ParseFloat(field, raw)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, calcerr.InvalidInput(field, raw, "must be zero or greater")
	}
	return value, nil
}

// ParseInt parses raw as a whole number within [min, max].
func ParseInt(field, raw string, min, max int) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, calcerr.InvalidInput(field, raw, "not a whole number")
	}
	if value < min || value > max {
		return 0, calcerr.InvalidInput(field, raw, "must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return value, nil
}

// ParseDateRange parses start and end instants and checks start is not
// after end.
func ParseDateRange(startRaw, endRaw string) (datetime.Instant, datetime.Instant, error) {
	start, err := datetime.ParseInstant(startRaw)
	if err != nil {
		return datetime.Instant{}, datetime.Instant{}, err
	}
	end, err := datetime.ParseInstant(endRaw)
	if err != nil {
		return datetime.Instant{}, datetime.Instant{}, err
	}
	if end.Before(start) {
		return datetime.Instant{}, datetime.Instant{}, &calcerr.InvalidRangeError{Start: start.String(), End: end.String()}
	}
	return start, end, nil
}
