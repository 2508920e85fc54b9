// Package output provides utilities for rendering calculator results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/finance"
	"github.com/iwvelando/calckit/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Field is one labelled value of a single-answer result.
type Field struct {
	Label string
	Value string
}

// Result is a single-answer calculation ready for display. Data is the
// value encoded for the json format.
type Result struct {
	Title  string
	Fields []Field
	Data   interface{}
}

// WriteResult renders r in the requested output format.
func WriteResult(w io.Writer, format string, r Result) error {
	switch format {
	case constants.OutputFormatJSON:
		return writeJSON(w, r.Data)
	case constants.OutputFormatCSV:
		if err := writeCsvRow(w, "field", "value"); err != nil {
			return err
		}
		for _, field := range r.Fields {
			if err := writeCsvRow(w, field.Label, field.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		width := 0
		for _, field := range r.Fields {
			if len(field.Label) > width {
				width = len(field.Label)
			}
		}
		if _, err := fmt.Fprintf(w, "--- %s ---\n", r.Title); err != nil {
			return err
		}
		for _, field := range r.Fields {
			if _, err := fmt.Fprintf(w, "%-*s | %s\n", width, field.Label, field.Value); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteSchedule renders an amortization schedule in the requested output format.
func WriteSchedule(w io.Writer, format string, s *loans.AmortizationSchedule) error {
	switch format {
	case constants.OutputFormatJSON:
		return writeJSON(w, s)
	case constants.OutputFormatCSV:
		if err := writeCsvRow(w, "period", "date", "payment", "principal", "interest", "extra", "balance"); err != nil {
			return err
		}
		for _, row := range s.Rows {
			if err := writeCsvRow(w,
				fmt.Sprintf("%d", row.Period),
				row.Date,
				fmt.Sprintf("%.2f", row.Payment),
				fmt.Sprintf("%.2f", row.Principal),
				fmt.Sprintf("%.2f", row.Interest),
				fmt.Sprintf("%.2f", row.Extra),
				fmt.Sprintf("%.2f", row.Balance),
			); err != nil {
				return err
			}
		}
		return nil
	default:
		return prettySchedule(w, s)
	}
}

func prettySchedule(w io.Writer, s *loans.AmortizationSchedule) error {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Amortization schedule ---\n")
	_, _ = p.Fprintf(w, "Principal: $%.2f | Payment: $%.2f | Periods: %d\n", s.Principal, s.Payment, s.Periods)
	fmt.Fprintf(w, "Period | Date    | Payment      | Principal    | Interest     | Extra        | Balance\n")
	fmt.Fprintf(w, "______ | _______ | ____________ | ____________ | ____________ | ____________ | ____________\n")
	for _, row := range s.Rows {
		date := row.Date
		if date == "" {
			date = "-"
		}
		if _, err := p.Fprintf(w, "%6d | %-7s | %12s | %12s | %12s | %12s | %12s\n",
			row.Period, date,
			p.Sprintf("$%.2f", row.Payment),
			p.Sprintf("$%.2f", row.Principal),
			p.Sprintf("$%.2f", row.Interest),
			p.Sprintf("$%.2f", row.Extra),
			p.Sprintf("$%.2f", row.Balance),
		); err != nil {
			return err
		}
	}
	_, err := p.Fprintf(w, "Total paid: $%.2f | Total interest: $%.2f\n", s.TotalPaid, s.TotalInterest)
	return err
}

// WriteGrowth renders a compound growth table in the requested output format.
func WriteGrowth(w io.Writer, format string, g *finance.GrowthSchedule) error {
	switch format {
	case constants.OutputFormatJSON:
		return writeJSON(w, g)
	case constants.OutputFormatCSV:
		if err := writeCsvRow(w, "year", "start balance", "contribution", "interest", "end balance"); err != nil {
			return err
		}
		for _, year := range g.Years {
			if err := writeCsvRow(w,
				fmt.Sprintf("%d", year.Year),
				fmt.Sprintf("%.2f", year.StartBalance),
				fmt.Sprintf("%.2f", year.Contribution),
				fmt.Sprintf("%.2f", year.Interest),
				fmt.Sprintf("%.2f", year.EndBalance),
			); err != nil {
				return err
			}
		}
		return nil
	default:
		p := message.NewPrinter(language.English)
		fmt.Fprintf(w, "--- Compound growth ---\n")
		fmt.Fprintf(w, "Year | Start balance    | Contribution     | Interest         | End balance\n")
		fmt.Fprintf(w, "____ | ________________ | ________________ | ________________ | ________________\n")
		for _, year := range g.Years {
			if _, err := p.Fprintf(w, "%4d | %16s | %16s | %16s | %16s\n",
				year.Year,
				p.Sprintf("$%.2f", year.StartBalance),
				p.Sprintf("$%.2f", year.Contribution),
				p.Sprintf("$%.2f", year.Interest),
				p.Sprintf("$%.2f", year.EndBalance),
			); err != nil {
				return err
			}
		}
		_, err := p.Fprintf(w, "Final balance: $%.2f | Total interest: $%.2f\n", g.FinalBalance, g.TotalInterest)
		return err
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeCsvRow writes one line with every field quoted.
func writeCsvRow(w io.Writer, fields ...string) error {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	_, err := fmt.Fprintln(w, strings.Join(quoted, ","))
	return err
}
