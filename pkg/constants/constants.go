// Package constants provides shared constants for the calckit application.
package constants

// DateTimeLayout is the month-granular format used to label amortization rows.
const DateTimeLayout = "2006-01"

// Instant layouts accepted on input, most specific first.
const (
	// DateLayout is a calendar date without time of day.
	DateLayout = "2006-01-02"

	// DateTimeSecondsLayout is the ISO-8601 style date with time of day.
	DateTimeSecondsLayout = "2006-01-02T15:04:05"

	// DateTimeSpaceLayout is the space-separated variant used by form inputs.
	DateTimeSpaceLayout = "2006-01-02 15:04:05"
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyPlaces is the number of decimal places kept for currency amounts
	CurrencyPlaces = 2

	// DefaultPaymentsPerYear is the default payment frequency for loans (monthly)
	DefaultPaymentsPerYear = 12

	// MaxAmortizationPeriods bounds the length of a generated schedule
	MaxAmortizationPeriods = 1200

	// MaxGrowthYears bounds the length of a compound growth table
	MaxGrowthYears = 1000

	// MaxFactorialInput is the largest n whose factorial fits in a float64
	MaxFactorialInput = 170
)

// Calendar constants
const (
	SecondsPerMinute = 60
	MinutesPerHour   = 60
	HoursPerDay      = 24
	SecondsPerHour   = SecondsPerMinute * MinutesPerHour
	SecondsPerDay    = SecondsPerHour * HoursPerDay
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "calckit.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "CALCKIT"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body size (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024

	// DefaultRateLimitCapacity is the number of requests a client may burst
	DefaultRateLimitCapacity = 60

	// DefaultRateLimitRefill is the bucket refill interval
	DefaultRateLimitRefill = "1m"

	// DefaultRefreshSchedule is the cron schedule for pre-warming currency rates
	DefaultRefreshSchedule = "@every 1h"
)

// Currency rate defaults
const (
	// RateProviderJSON selects the REST provider serving GET /latest/{base}
	RateProviderJSON = "json"

	// RateProviderECB selects the European Central Bank daily XML feed
	RateProviderECB = "ecb"

	// DefaultRatesBaseURL is the default REST rate provider
	DefaultRatesBaseURL = "https://open.er-api.com/v6"

	// DefaultECBURL is the ECB daily reference rate feed
	DefaultECBURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"

	// DefaultRatesTimeout is the outbound HTTP timeout for rate fetches
	DefaultRatesTimeout = "10s"

	// DefaultRatesCacheTTL is how long fetched rates are served from cache
	DefaultRatesCacheTTL = "1h"

	// DefaultBaseCurrency is used when no base currency is requested
	DefaultBaseCurrency = "USD"
)

// Validation constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
