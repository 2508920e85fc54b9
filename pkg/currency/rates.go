// Package currency converts amounts between currencies using a rate table.
package currency

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/calckit/pkg/calcerr"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Category is the name under which unknown currency codes are reported.
const Category = "currency"

// Code is an ISO 4217 style three-letter currency code.
type Code string

// ParseCode normalises raw to upper case and checks it is three ASCII letters.
func ParseCode(raw string) (Code, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 {
		return "", calcerr.InvalidInput("currency", raw, "expected a three-letter code")
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", calcerr.InvalidInput("currency", raw, "expected a three-letter code")
		}
	}
	return Code(code), nil
}

// Rates is a snapshot of exchange rates quoted as units of each currency
// per one unit of Base.
type Rates struct {
	Base      Code             `json:"base"`
	Rates     map[Code]float64 `json:"rates"`
	Timestamp time.Time        `json:"timestamp"`
	Provider  string           `json:"provider,omitempty"`
}

// Rate returns the quote for code. The base currency is always 1.
func (r Rates) Rate(code Code) (float64, error) {
	if code == r.Base {
		return 1, nil
	}
	rate, ok := r.Rates[code]
	if !ok || !mathutil.IsFinite(rate) || rate <= 0 {
		return 0, calcerr.UnknownUnit(Category, string(code))
	}
	return rate, nil
}

// Convert converts amount from one currency to another by crossing through
// the table's base. The result is rounded half away from zero to cents.
func (r Rates) Convert(amount float64, from, to Code) (float64, error) {
	if !mathutil.IsFinite(amount) {
		return 0, calcerr.InvalidInput("amount", amount, "must be a finite number")
	}
	fromRate, err := r.Rate(from)
	if err != nil {
		return 0, err
	}
	toRate, err := r.Rate(to)
	if err != nil {
		return 0, err
	}

	converted := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(toRate)).
		Div(decimal.NewFromFloat(fromRate)).
		Round(constants.CurrencyPlaces)
	return converted.InexactFloat64(), nil
}

// Rebase returns the same table quoted against base.
func (r Rates) Rebase(base Code) (Rates, error) {
	if base == r.Base {
		return r, nil
	}
	pivot, err := r.Rate(base)
	if err != nil {
		return Rates{}, err
	}

	divisor := decimal.NewFromFloat(pivot)
	rebased := Rates{
		Base:      base,
		Rates:     make(map[Code]float64, len(r.Rates)),
		Timestamp: r.Timestamp,
		Provider:  r.Provider,
	}
	rebased.Rates[r.Base] = decimal.NewFromInt(1).Div(divisor).InexactFloat64()
	for code, rate := range r.Rates {
		if code == base {
			continue
		}
		rebased.Rates[code] = decimal.NewFromFloat(rate).Div(divisor).InexactFloat64()
	}
	return rebased, nil
}

// Codes lists every currency the table can convert, base included, sorted.
func (r Rates) Codes() []Code {
	codes := make([]Code, 0, len(r.Rates)+1)
	seen := map[Code]bool{r.Base: true}
	codes = append(codes, r.Base)
	for code := range r.Rates {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Validate checks that the table has a valid base and positive quotes.
func (r Rates) Validate() error {
	if _, err := ParseCode(string(r.Base)); err != nil {
		return err
	}
	if len(r.Rates) == 0 {
		return fmt.Errorf("rate table for %s is empty", r.Base)
	}
	for code, rate := range r.Rates {
		if !mathutil.IsFinite(rate) || rate <= 0 {
			return calcerr.InvalidInput("rates."+string(code), rate, "must be a positive number")
		}
	}
	return nil
}
