// Package units converts measurements between units of the same category.
package units

import (
	"sort"
	"strings"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/mathutil"
)

// Category groups units that measure the same quantity.
type Category string

// Unit names a unit of measure within a Category.
type Unit string

// Supported categories.
const (
	Length      Category = "length"
	Weight      Category = "weight"
	Volume      Category = "volume"
	Area        Category = "area"
	Time        Category = "time"
	Temperature Category = "temperature"
)

// Temperature units.
const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
	Kelvin     Unit = "kelvin"
)

// factors holds, for every linear category, how many of each unit make up
// one base unit. The base unit has factor 1.
var factors = map[Category]map[Unit]float64{
	Length: {
		"meter":      1,
		"kilometer":  0.001,
		"centimeter": 100,
		"millimeter": 1000,
		"mile":       1 / 1609.344,
		"yard":       1 / 0.9144,
		"foot":       1 / 0.3048,
		"inch":       1 / 0.0254,
	},
	Weight: {
		"kilogram":  1,
		"gram":      1000,
		"milligram": 1e6,
		"tonne":     0.001,
		"pound":     1 / 0.45359237,
		"ounce":     16 / 0.45359237,
	},
	Volume: {
		"liter":       1,
		"milliliter":  1000,
		"cubic-meter": 0.001,
		"gallon":      1 / 3.785411784,
		"quart":       4 / 3.785411784,
		"pint":        8 / 3.785411784,
		"cup":         16 / 3.785411784,
		"fluid-ounce": 128 / 3.785411784,
	},
	Area: {
		"square-meter":      1,
		"square-kilometer":  1e-6,
		"square-centimeter": 1e4,
		"hectare":           1e-4,
		"acre":              1 / 4046.8564224,
		"square-mile":       1 / 2589988.110336,
		"square-foot":       1 / 0.09290304,
		"square-inch":       1 / 0.00064516,
	},
	Time: {
		"second":      1,
		"millisecond": 1000,
		"minute":      1.0 / 60,
		"hour":        1.0 / 3600,
		"day":         1.0 / 86400,
		"week":        1.0 / 604800,
		"year":        1.0 / 31557600, // Julian year of 365.25 days
	},
}

var temperatureUnits = []Unit{Celsius, Fahrenheit, Kelvin}

// Convert converts value from one unit to another within category.
// Linear categories scale through the base unit; temperature converts
// through Celsius.
func Convert(value float64, from, to Unit, category Category) (float64, error) {
	if !mathutil.IsFinite(value) {
		return 0, calcerr.InvalidInput("value", value, "must be a finite number")
	}

	if category == Temperature {
		celsius, err := toCelsius(value, from)
		if err != nil {
			return 0, err
		}
		result, err := fromCelsius(celsius, to)
		if err != nil {
			return 0, err
		}
		return finite(value, result)
	}

	table, ok := factors[category]
	if !ok {
		return 0, calcerr.UnknownUnit(string(category), "")
	}
	fromFactor, ok := table[from]
	if !ok {
		return 0, calcerr.UnknownUnit(string(category), string(from))
	}
	toFactor, ok := table[to]
	if !ok {
		return 0, calcerr.UnknownUnit(string(category), string(to))
	}
	if from == to {
		return value, nil
	}
	return finite(value, value/fromFactor*toFactor)
}

// finite rejects a conversion whose result overflows float64.
func finite(value, result float64) (float64, error) {
	if !mathutil.IsFinite(result) {
		return 0, calcerr.InvalidInput("value", value, "converted value is out of range")
	}
	return result, nil
}

func toCelsius(value float64, unit Unit) (float64, error) {
	switch unit {
	case Celsius:
		return value, nil
	case Fahrenheit:
		return (value - 32) * 5 / 9, nil
	case Kelvin:
		return value - 273.15, nil
	}
	return 0, calcerr.UnknownUnit(string(Temperature), string(unit))
}

func fromCelsius(celsius float64, unit Unit) (float64, error) {
	switch unit {
	case Celsius:
		return celsius, nil
	case Fahrenheit:
		return celsius*9/5 + 32, nil
	case Kelvin:
		return celsius + 273.15, nil
	}
	return 0, calcerr.UnknownUnit(string(Temperature), string(unit))
}

// ParseCategory normalises raw and checks it names a known category.
func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(raw)))
	if category == Temperature {
		return category, nil
	}
	if _, ok := factors[category]; ok {
		return category, nil
	}
	return "", calcerr.UnknownUnit(raw, "")
}

// ParseUnit normalises raw and checks it names a unit of category.
// Spaces and underscores are accepted in place of hyphens.
func ParseUnit(category Category, raw string) (Unit, error) {
	normalised := strings.ToLower(strings.TrimSpace(raw))
	normalised = strings.NewReplacer(" ", "-", "_", "-").Replace(normalised)
	unit := Unit(normalised)
	for _, known := range Units(category) {
		if known == unit {
			return unit, nil
		}
	}
	return "", calcerr.UnknownUnit(string(category), raw)
}

// Categories lists the supported categories in alphabetical order.
func Categories() []Category {
	categories := make([]Category, 0, len(factors)+1)
	for category := range factors {
		categories = append(categories, category)
	}
	categories = append(categories, Temperature)
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

// Units lists the units of category in alphabetical order, or nil for an
// unknown category.
func Units(category Category) []Unit {
	if category == Temperature {
		units := make([]Unit, len(temperatureUnits))
		copy(units, temperatureUnits)
		sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
		return units
	}
	table, ok := factors[category]
	if !ok {
		return nil
	}
	units := make([]Unit, 0, len(table))
	for unit := range table {
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool { return units[i] < units[j] })
	return units
}
