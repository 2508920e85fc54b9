package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/iwvelando/calckit/internal/config"
	"github.com/iwvelando/calckit/internal/rates"
	"github.com/iwvelando/calckit/internal/server"
	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/currency"
	"github.com/iwvelando/calckit/pkg/datetime"
	"github.com/iwvelando/calckit/pkg/finance"
	"github.com/iwvelando/calckit/pkg/format"
	"github.com/iwvelando/calckit/pkg/loans"
	"github.com/iwvelando/calckit/pkg/mathutil"
	"github.com/iwvelando/calckit/pkg/output"
	"github.com/iwvelando/calckit/pkg/units"
	"github.com/iwvelando/calckit/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) writeResult(r output.Result) error {
	return output.WriteResult(a.stdout, a.format, r)
}

func (a *app) amortizeCommand() *cobra.Command {
	var principal, rate, periods string
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Fixed-payment amortization schedule for a periodic rate",
		RunE: func(*cobra.Command, []string) error {
			p, err := validation.ParsePositive("principal", principal)
			if err != nil {
				return err
			}
			r, err := validation.ParseNonNegative("rate", rate)
			if err != nil {
				return err
			}
			n, err := validation.ParseInt("periods", periods, 1, constants.MaxAmortizationPeriods)
			if err != nil {
				return err
			}
			schedule, err := loans.Schedule(p, r, n)
			if err != nil {
				return err
			}
			return output.WriteSchedule(a.stdout, a.format, schedule)
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "amount borrowed")
	cmd.Flags().StringVar(&rate, "rate", "", "interest rate per period as a decimal (0.01 = 1%)")
	cmd.Flags().StringVar(&periods, "periods", "", "number of payments")
	return cmd
}

func (a *app) loanCommand() *cobra.Command {
	var (
		name, principal, downPayment, rate, term, paymentsPerYear, startDate string
		extraAmount, extraStart, extraEnd, extraFrequency                    string
	)
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan amortization from annual terms with optional extra principal",
		RunE: func(*cobra.Command, []string) error {
			loan := loans.LoanConfig{Name: name, StartDate: startDate}
			var err error
			if loan.Principal, err = validation.ParsePositive("principal", principal); err != nil {
				return err
			}
			if downPayment != "" {
				if loan.DownPayment, err = validation.ParseNonNegative("down-payment", downPayment); err != nil {
					return err
				}
			}
			if loan.AnnualInterestRate, err = validation.ParseNonNegative("rate", rate); err != nil {
				return err
			}
			if loan.Term, err = validation.ParseInt("term", term, 1, constants.MaxAmortizationPeriods); err != nil {
				return err
			}
			if loan.PaymentsPerYear, err = validation.ParseInt("payments-per-year", paymentsPerYear, 1, 365); err != nil {
				return err
			}
			if extraAmount != "" {
				extra := loans.ExtraPayment{Name: "cli"}
				if extra.Amount, err = validation.ParsePositive("extra-amount", extraAmount); err != nil {
					return err
				}
				if extra.StartPeriod, err = validation.ParseInt("extra-start", extraStart, 1, constants.MaxAmortizationPeriods); err != nil {
					return err
				}
				if extraEnd != "" {
					if extra.EndPeriod, err = validation.ParseInt("extra-end", extraEnd, 1, constants.MaxAmortizationPeriods); err != nil {
						return err
					}
				}
				if extra.Frequency, err = validation.ParseInt("extra-frequency", extraFrequency, 1, constants.MaxAmortizationPeriods); err != nil {
					return err
				}
				loan.ExtraPrincipal = append(loan.ExtraPrincipal, extra)
			}

			schedule, err := loans.NewAmortizationScheduleGenerator(a.logger).GenerateSchedule(&loan)
			if err != nil {
				return err
			}
			return output.WriteSchedule(a.stdout, a.format, schedule)
		},
	}
	cmd.Flags().StringVar(&name, "name", "loan", "label used in log output")
	cmd.Flags().StringVar(&principal, "principal", "", "purchase price or amount borrowed")
	cmd.Flags().StringVar(&downPayment, "down-payment", "", "amount paid up front")
	cmd.Flags().StringVar(&rate, "rate", "", "annual interest rate in percent")
	cmd.Flags().StringVar(&term, "term", "", "number of payments")
	cmd.Flags().StringVar(&paymentsPerYear, "payments-per-year", strconv.Itoa(constants.DefaultPaymentsPerYear), "payment frequency")
	cmd.Flags().StringVar(&startDate, "start-date", "", "month of the first payment (YYYY-MM)")
	cmd.Flags().StringVar(&extraAmount, "extra-amount", "", "extra principal per scheduled payment")
	cmd.Flags().StringVar(&extraStart, "extra-start", "1", "first period receiving extra principal")
	cmd.Flags().StringVar(&extraEnd, "extra-end", "", "last period receiving extra principal")
	cmd.Flags().StringVar(&extraFrequency, "extra-frequency", "1", "apply extra principal every N periods")
	return cmd
}

func (a *app) dateDiffCommand() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "datediff",
		Short: "Calendar-aware difference between two dates",
		RunE: func(*cobra.Command, []string) error {
			from, to, err := validation.ParseDateRange(start, end)
			if err != nil {
				return err
			}
			d, err := datetime.Diff(from, to)
			if err != nil {
				return err
			}
			return a.writeResult(output.Result{
				Title: "Date difference",
				Fields: []output.Field{
					{Label: "From", Value: from.String()},
					{Label: "To", Value: to.String()},
					{Label: "Difference", Value: format.Duration(d)},
					{Label: "Total days", Value: format.Number(float64(d.TotalDays), 0)},
					{Label: "Total hours", Value: format.Number(float64(d.TotalHours), 0)},
					{Label: "Total minutes", Value: format.Number(float64(d.TotalMinutes), 0)},
					{Label: "Total seconds", Value: format.Number(float64(d.TotalSeconds), 0)},
				},
				Data: d,
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)")
	return cmd
}

func (a *app) ageCommand() *cobra.Command {
	var birthDate, asOf string
	cmd := &cobra.Command{
		Use:   "age",
		Short: "Age on a date and days until the next birthday",
		RunE: func(*cobra.Command, []string) error {
			birth, err := datetime.ParseInstant(birthDate)
			if err != nil {
				return err
			}
			on := datetime.FromTime(timeNow()).Date()
			if asOf != "" {
				if on, err = datetime.ParseInstant(asOf); err != nil {
					return err
				}
			}
			age, err := datetime.Age(birth, on)
			if err != nil {
				return err
			}
			next, days, err := datetime.NextBirthday(birth, on)
			if err != nil {
				return err
			}
			return a.writeResult(output.Result{
				Title: "Age",
				Fields: []output.Field{
					{Label: "Age", Value: format.Duration(age)},
					{Label: "Total days", Value: format.Number(float64(age.TotalDays), 0)},
					{Label: "Next birthday", Value: next.Time().Format(constants.DateLayout)},
					{Label: "Days until birthday", Value: strconv.Itoa(days)},
				},
				Data: map[string]interface{}{
					"age":               age,
					"nextBirthday":      next,
					"daysUntilBirthday": days,
				},
			})
		},
	}
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "date to compute the age on (default today)")
	return cmd
}

func (a *app) convertCommand() *cobra.Command {
	var value, from, to, category string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a measurement between units of the same category",
		RunE: func(*cobra.Command, []string) error {
			v, err := validation.ParseFloat("value", value)
			if err != nil {
				return err
			}
			c, err := units.ParseCategory(category)
			if err != nil {
				return err
			}
			fromUnit, err := units.ParseUnit(c, from)
			if err != nil {
				return err
			}
			toUnit, err := units.ParseUnit(c, to)
			if err != nil {
				return err
			}
			result, err := units.Convert(v, fromUnit, toUnit, c)
			if err != nil {
				return err
			}
			return a.writeResult(output.Result{
				Title: "Unit conversion",
				Fields: []output.Field{
					{Label: "Category", Value: string(c)},
					{Label: string(fromUnit), Value: strconv.FormatFloat(v, 'g', -1, 64)},
					{Label: string(toUnit), Value: strconv.FormatFloat(result, 'g', -1, 64)},
				},
				Data: map[string]interface{}{
					"category": c, "from": fromUnit, "to": toUnit, "value": v, "result": result,
				},
			})
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "quantity to convert")
	cmd.Flags().StringVar(&from, "from", "", "unit to convert from")
	cmd.Flags().StringVar(&to, "to", "", "unit to convert to")
	cmd.Flags().StringVar(&category, "category", "", "length, weight, volume, area, time or temperature")
	return cmd
}

func (a *app) currencyCommand() *cobra.Command {
	var amount, from, to string
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Convert an amount between currencies at the latest rates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := validation.ParseFloat("amount", amount)
			if err != nil {
				return err
			}
			fromCode, err := currency.ParseCode(from)
			if err != nil {
				return err
			}
			toCode, err := currency.ParseCode(to)
			if err != nil {
				return err
			}

			provider, err := rates.NewProvider(a.conf.Rates, a.logger)
			if err != nil {
				return err
			}
			service := rates.NewService(provider, rates.NewCache(a.conf.Rates), a.conf.Rates.CacheTTL, a.logger)
			result, table, err := service.Convert(cmd.Context(), value, fromCode, toCode)
			if err != nil {
				return err
			}

			return a.writeResult(output.Result{
				Title: "Currency conversion",
				Fields: []output.Field{
					{Label: "Amount", Value: format.CodeCurrency(value, string(fromCode))},
					{Label: "Converted", Value: format.CodeCurrency(result, string(toCode))},
					{Label: "Rates as of", Value: table.Timestamp.UTC().Format(constants.DateTimeSpaceLayout)},
					{Label: "Provider", Value: table.Provider},
				},
				Data: map[string]interface{}{
					"amount": value, "from": fromCode, "to": toCode, "result": result,
					"timestamp": table.Timestamp, "provider": table.Provider,
				},
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "amount to convert")
	cmd.Flags().StringVar(&from, "from", constants.DefaultBaseCurrency, "currency code to convert from")
	cmd.Flags().StringVar(&to, "to", "", "currency code to convert to")
	return cmd
}

func (a *app) compoundCommand() *cobra.Command {
	var principal, rate, years, compounds, contribution string
	cmd := &cobra.Command{
		Use:   "compound",
		Short: "Compound interest growth table",
		RunE: func(*cobra.Command, []string) error {
			p, err := validation.ParseNonNegative("principal", principal)
			if err != nil {
				return err
			}
			r, err := validation.ParseFloat("rate", rate)
			if err != nil {
				return err
			}
			y, err := validation.ParseInt("years", years, 0, constants.MaxGrowthYears)
			if err != nil {
				return err
			}
			n, err := validation.ParseInt("compounds-per-year", compounds, 1, 365)
			if err != nil {
				return err
			}
			c, err := validation.ParseNonNegative("contribution", contribution)
			if err != nil {
				return err
			}
			growth, err := finance.CompoundSchedule(p, r, y, n, c)
			if err != nil {
				return err
			}
			return output.WriteGrowth(a.stdout, a.format, growth)
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "starting balance")
	cmd.Flags().StringVar(&rate, "rate", "", "annual interest rate in percent")
	cmd.Flags().StringVar(&years, "years", "", "number of years")
	cmd.Flags().StringVar(&compounds, "compounds-per-year", "12", "compounding periods per year")
	cmd.Flags().StringVar(&contribution, "contribution", "0", "deposit added at the end of each year")
	return cmd
}

func (a *app) npvCommand() *cobra.Command {
	var initial, cashFlows, rate string
	cmd := &cobra.Command{
		Use:   "npv",
		Short: "Net present value of a series of yearly cash flows",
		RunE: func(*cobra.Command, []string) error {
			i, err := validation.ParseNonNegative("initial", initial)
			if err != nil {
				return err
			}
			r, err := validation.ParseFloat("rate", rate)
			if err != nil {
				return err
			}
			flows := finance.ParseCashFlows(cashFlows)
			npv, err := finance.NPV(i, flows, r)
			if err != nil {
				return err
			}
			return a.writeResult(output.Result{
				Title: "Net present value",
				Fields: []output.Field{
					{Label: "Initial investment", Value: format.Currency(i)},
					{Label: "Cash flows", Value: strconv.Itoa(len(flows))},
					{Label: "Discount rate", Value: format.Percent(r)},
					{Label: "NPV", Value: format.Currency(npv)},
				},
				Data: map[string]interface{}{"npv": npv, "cashFlows": flows},
			})
		},
	}
	cmd.Flags().StringVar(&initial, "initial", "", "initial investment")
	cmd.Flags().StringVar(&cashFlows, "cash-flows", "", "yearly cash flows separated by commas or spaces")
	cmd.Flags().StringVar(&rate, "rate", "", "discount rate in percent")
	return cmd
}

func (a *app) roiCommand() *cobra.Command {
	var investment, totalReturn, years string
	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Return on investment, optionally annualized",
		RunE: func(*cobra.Command, []string) error {
			i, err := validation.ParsePositive("investment", investment)
			if err != nil {
				return err
			}
			r, err := validation.ParseFloat("return", totalReturn)
			if err != nil {
				return err
			}
			roi, err := finance.ROI(i, r)
			if err != nil {
				return err
			}
			fields := []output.Field{
				{Label: "Investment", Value: format.Currency(i)},
				{Label: "Total return", Value: format.Currency(r)},
				{Label: "Gain", Value: format.Currency(r - i)},
				{Label: "ROI", Value: format.Percent(roi)},
			}
			data := map[string]interface{}{"roi": roi}

			if years != "" {
				y, err := validation.ParsePositive("years", years)
				if err != nil {
					return err
				}
				annualized, err := finance.AnnualizedROI(i, r, y)
				if err != nil {
					return err
				}
				fields = append(fields, output.Field{Label: "Annualized ROI", Value: format.Percent(annualized)})
				data["annualizedRoi"] = annualized
			}

			return a.writeResult(output.Result{Title: "Return on investment", Fields: fields, Data: data})
		},
	}
	cmd.Flags().StringVar(&investment, "investment", "", "amount invested")
	cmd.Flags().StringVar(&totalReturn, "return", "", "total amount returned")
	cmd.Flags().StringVar(&years, "years", "", "holding period in years, for the annualized figure")
	return cmd
}

func (a *app) factorialCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "factorial N",
		Short: "n! for 0 <= n <= 170",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := validation.ParseInt("n", args[0], 0, constants.MaxFactorialInput)
			if err != nil {
				return err
			}
			result, err := mathutil.Factorial(n)
			if err != nil {
				return err
			}
			return a.writeResult(output.Result{
				Title:  "Factorial",
				Fields: []output.Field{{Label: fmt.Sprintf("%d!", n), Value: strconv.FormatFloat(result, 'g', -1, 64)}},
				Data:   map[string]interface{}{"n": n, "result": result},
			})
		},
	}
}

func (a *app) sqrtCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sqrt X",
		Short: "Principal square root",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			x, err := validation.ParseFloat("x", args[0])
			if err != nil {
				return err
			}
			result, err := mathutil.SquareRoot(x)
			if err != nil {
				return err
			}
			return a.writeResult(output.Result{
				Title:  "Square root",
				Fields: []output.Field{{Label: "√" + args[0], Value: strconv.FormatFloat(result, 'g', -1, 64)}},
				Data:   map[string]interface{}{"x": x, "result": result},
			})
		},
	}
}

func (a *app) percentCommand() *cobra.Command {
	var value, total string
	cmd := &cobra.Command{
		Use:   "percent",
		Short: "What share of total a value is, and the change from total to value",
		RunE: func(*cobra.Command, []string) error {
			v, err := validation.ParseFloat("value", value)
			if err != nil {
				return err
			}
			t, err := validation.ParseFloat("total", total)
			if err != nil {
				return err
			}
			share := mathutil.PercentOf(v, t)
			fields := []output.Field{{Label: "Share of total", Value: format.Percent(share)}}
			data := map[string]interface{}{"share": share}
			if change, err := mathutil.PercentChange(t, v); err == nil {
				fields = append(fields, output.Field{Label: "Change from total", Value: format.Percent(change)})
				data["change"] = change
			}
			return a.writeResult(output.Result{Title: "Percentage", Fields: fields, Data: data})
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "part or new value")
	cmd.Flags().StringVar(&total, "total", "", "whole or old value")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	var serverConfig, address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfig)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			// server config logging, when present, replaces the CLI logger
			logger := a.logger
			if cfg.Logging != (config.LoggingConfig{}) {
				if logger, err = initializeLogger(cfg.Logging, a.logLevel); err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
			}

			srv, err := server.New(cfg, version, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = srv.Run(ctx)
			logger.Info("server exited",
				zap.String("op", "main.serve"),
			)
			return err
		},
	}
	cmd.Flags().StringVar(&serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

// timeNow is replaced in tests.
var timeNow = time.Now
