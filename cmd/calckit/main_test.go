package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/calckit/internal/config"
	"github.com/iwvelando/calckit/pkg/calcerr"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("calckit %s error = %v", strings.Join(args, " "), err)
	}
	return out
}

func lines(out string) []string {
	return strings.Split(strings.TrimSpace(out), "\n")
}

func TestAmortize(t *testing.T) {
	out := mustRun(t, "amortize", "--principal", "12,000", "--rate", "0.01", "--periods", "12")
	if !strings.Contains(out, "Payment: $1,066.19") {
		t.Errorf("pretty output missing payment:\n%s", out)
	}

	out = mustRun(t, "amortize", "--principal", "12000", "--rate", "0.01", "--periods", "12", "--output-format", "csv")
	rows := lines(out)
	if len(rows) != 13 {
		t.Fatalf("expected header plus 12 rows, got %d", len(rows))
	}
	if !strings.HasPrefix(rows[12], `"12",`) || !strings.HasSuffix(rows[12], `"0.00"`) {
		t.Errorf("last row = %s, expected period 12 with zero balance", rows[12])
	}

	if _, err := run(t, "amortize", "--principal", "0", "--rate", "0.01", "--periods", "12"); !errors.Is(err, calcerr.ErrInvalidInput) {
		t.Errorf("zero principal error = %v, expected ErrInvalidInput", err)
	}
}

func TestLoan(t *testing.T) {
	out := mustRun(t, "loan", "--principal", "12500", "--down-payment", "500", "--rate", "12",
		"--term", "12", "--start-date", "2025-01", "--output-format", "csv")
	rows := lines(out)
	if len(rows) != 13 || !strings.Contains(rows[12], `"2025-12"`) {
		t.Fatalf("expected 12 dated rows ending 2025-12, got:\n%s", out)
	}

	out = mustRun(t, "loan", "--principal", "12000", "--rate", "12", "--term", "12",
		"--extra-amount", "1000", "--output-format", "csv")
	if n := len(lines(out)) - 1; n >= 12 {
		t.Errorf("extra principal should pay the loan off early, got %d rows", n)
	}

	if _, err := run(t, "loan", "--principal", "12000", "--rate", "12", "--term", "12", "--start-date", "soon"); err == nil {
		t.Error("expected error for malformed start date")
	}
}

func TestDateDiff(t *testing.T) {
	out := mustRun(t, "datediff", "--start", "2000-02-29", "--end", "2001-03-01")
	for _, want := range []string{"--- Date difference ---", "| 1 year", "| 366"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "datediff", "--start", "2024-01-01T00:00:00", "--end", "2024-01-02T01:02:03", "--output-format", "json")
	var d struct {
		Days, Hours, Minutes, Seconds int
		TotalSeconds                  int64
	}
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("failed to decode json output: %v", err)
	}
	if d.Days != 1 || d.Hours != 1 || d.Minutes != 2 || d.Seconds != 3 || d.TotalSeconds != 90123 {
		t.Errorf("duration = %+v", d)
	}

	if _, err := run(t, "datediff", "--start", "2001-03-01", "--end", "2000-02-29"); !errors.Is(err, calcerr.ErrInvalidRange) {
		t.Errorf("reversed range error = %v, expected ErrInvalidRange", err)
	}
}

func TestAge(t *testing.T) {
	original := timeNow
	timeNow = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { timeNow = original }()

	for _, args := range [][]string{
		{"age", "--birth-date", "1990-06-15", "--as-of", "2025-06-01", "--output-format", "json"},
		{"age", "--birth-date", "1990-06-15", "--output-format", "json"},
	} {
		out := mustRun(t, args...)
		var resp struct {
			Age struct {
				Years, Months, Days int
			} `json:"age"`
			DaysUntilBirthday int `json:"daysUntilBirthday"`
		}
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatalf("failed to decode json output: %v", err)
		}
		if resp.Age.Years != 34 || resp.Age.Months != 11 || resp.Age.Days != 17 || resp.DaysUntilBirthday != 14 {
			t.Errorf("%v: age = %+v, days until birthday = %d", args, resp.Age, resp.DaysUntilBirthday)
		}
	}
}

func TestConvert(t *testing.T) {
	out := mustRun(t, "convert", "--value", "0", "--from", "celsius", "--to", "fahrenheit",
		"--category", "temperature", "--output-format", "json")
	var resp map[string]interface{}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("failed to decode json output: %v", err)
	}
	if resp["result"] != 32.0 {
		t.Errorf("0 celsius = %v fahrenheit, expected 32", resp["result"])
	}

	out = mustRun(t, "convert", "--value", "2", "--from", "Meter", "--to", "centimeter", "--category", "length")
	if !strings.Contains(out, "centimeter | 200") {
		t.Errorf("pretty output missing 200 centimeters:\n%s", out)
	}

	if _, err := run(t, "convert", "--value", "1", "--from", "meter", "--to", "furlong", "--category", "length"); !errors.Is(err, calcerr.ErrUnknownUnit) {
		t.Errorf("unknown unit error = %v, expected ErrUnknownUnit", err)
	}
}

func TestCurrency(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/USD" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","time_last_update_unix":1748822400,"rates":{"EUR":0.5,"GBP":0.25}}`))
	}))
	defer upstream.Close()
	t.Setenv("CALCKIT_RATES_BASEURL", upstream.URL)

	out := mustRun(t, "currency", "--amount", "1,234.50", "--from", "usd", "--to", "eur")
	for _, want := range []string{"1,234.50 USD", "617.25 EUR", "2025-06-02 00:00:00", "json"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "currency", "--amount", "10", "--from", "USD", "--to", "CHF"); !errors.Is(err, calcerr.ErrUnknownUnit) {
		t.Errorf("unknown currency error = %v, expected ErrUnknownUnit", err)
	}
	if _, err := run(t, "currency", "--amount", "10", "--from", "dollars", "--to", "EUR"); !errors.Is(err, calcerr.ErrInvalidInput) {
		t.Errorf("malformed currency error = %v, expected ErrInvalidInput", err)
	}
}

func TestFinanceCommands(t *testing.T) {
	out := mustRun(t, "compound", "--principal", "1000", "--rate", "10", "--years", "2",
		"--compounds-per-year", "1", "--output-format", "csv")
	rows := lines(out)
	if len(rows) != 3 || !strings.HasSuffix(rows[2], `"1210.00"`) {
		t.Errorf("compound csv = \n%s", out)
	}

	out = mustRun(t, "npv", "--initial", "1000", "--cash-flows", "1100", "--rate", "0")
	if !strings.Contains(out, "$100.00") {
		t.Errorf("npv output missing $100.00:\n%s", out)
	}
	if _, err := run(t, "npv", "--initial", "1000", "--cash-flows", "n/a", "--rate", "5"); !errors.Is(err, calcerr.ErrInvalidInput) {
		t.Errorf("npv without cash flows error = %v, expected ErrInvalidInput", err)
	}

	out = mustRun(t, "roi", "--investment", "1000", "--return", "1500", "--years", "2")
	for _, want := range []string{"50.00%", "22.47%", "$500.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("roi output missing %q:\n%s", want, out)
		}
	}
}

func TestMathCommands(t *testing.T) {
	out := mustRun(t, "factorial", "5", "--output-format", "csv")
	if !strings.Contains(out, `"5!","120"`) {
		t.Errorf("factorial csv = %s", out)
	}
	if _, err := run(t, "factorial", "171"); !errors.Is(err, calcerr.ErrInvalidInput) {
		t.Errorf("factorial(171) error = %v, expected ErrInvalidInput", err)
	}

	out = mustRun(t, "sqrt", "144")
	if !strings.Contains(out, "| 12") {
		t.Errorf("sqrt output = %s", out)
	}

	out = mustRun(t, "percent", "--value", "25", "--total", "200")
	if !strings.Contains(out, "12.50%") || !strings.Contains(out, "-87.50%") {
		t.Errorf("percent output = %s", out)
	}
}

func TestGlobalFlagsAndConfig(t *testing.T) {
	if _, err := run(t, "factorial", "3", "--output-format", "xml"); err == nil {
		t.Error("expected error for unsupported output format")
	}
	if _, err := run(t, "factorial", "3", "--log-level", "loud"); err == nil {
		t.Error("expected error for invalid log level")
	}
	if _, err := run(t, "factorial", "3", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for an explicit config path that does not exist")
	}

	path := filepath.Join(t.TempDir(), "calckit.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: csv\nlogging:\n  level: warn\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	out := mustRun(t, "factorial", "4", "--config", path)
	if !strings.HasPrefix(out, `"field","value"`) {
		t.Errorf("config output format should apply, got %s", out)
	}
	out = mustRun(t, "factorial", "4", "--config", path, "--output-format", "pretty")
	if !strings.HasPrefix(out, "--- Factorial ---") {
		t.Errorf("flag should override config output format, got %s", out)
	}
}

func TestServeListenFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "server-config.yaml")
	if _, err := run(t, "serve", "--server-config", missing, "--address", "not-a-valid-address"); err == nil {
		t.Error("expected serve to fail for an invalid listen address")
	}
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		override string
		wantErr  bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"File output", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "calckit.log")}, "", false},
		{"Bad level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"Bad format", config.LoggingConfig{Format: "xml"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.cfg, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Error("initializeLogger() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			_ = logger.Sync()
		})
	}
}
