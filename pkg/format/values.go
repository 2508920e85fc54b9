package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/calckit/pkg/datetime"
)

// Percent returns a percentage with two decimals (e.g., "-12.50%").
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// Number returns value with places decimals and thousands separators.
func Number(value float64, places int) string {
	if places < 0 {
		places = 0
	}
	formatted := groupThousands(strconv.FormatFloat(math.Abs(value), 'f', places, 64))
	if value < 0 && strings.Trim(formatted, "0.,") != "" {
		return "-" + formatted
	}
	return formatted
}

// Duration spells out the non-zero calendar components of d, largest first
// (e.g., "1 year, 2 months, 3 days"). A zero duration is "0 seconds".
func Duration(d datetime.Duration) string {
	parts := make([]string, 0, 6)
	for _, component := range []struct {
		value int
		unit  string
	}{
		{d.Years, "year"},
		{d.Months, "month"},
		{d.Days, "day"},
		{d.Hours, "hour"},
		{d.Minutes, "minute"},
		{d.Seconds, "second"},
	} {
		if component.value == 0 {
			continue
		}
		parts = append(parts, plural(component.value, component.unit))
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
