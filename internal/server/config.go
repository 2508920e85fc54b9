package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/calckit/internal/config"
	"github.com/iwvelando/calckit/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address          string               `yaml:"address"`
	MaxRequestSize   string               `yaml:"maxRequestSize"`
	RateLimit        RateLimitConfig      `yaml:"rateLimit"`
	Refresh          RefreshConfig        `yaml:"refresh"`
	Logging          config.LoggingConfig `yaml:"logging"`
	Rates            config.RatesConfig   `yaml:"rates"`
	requestSizeBytes int64
}

// RateLimitConfig sizes the per-client token bucket. A capacity of zero
// disables rate limiting.
type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Refill   time.Duration `yaml:"refill"`
}

// RefreshConfig schedules cache pre-warming for the listed base currencies.
// No bases disables the refresher.
type RefreshConfig struct {
	Schedule string   `yaml:"schedule"`
	Bases    []string `yaml:"bases"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	refill, _ := time.ParseDuration(constants.DefaultRateLimitRefill)
	timeout, _ := time.ParseDuration(constants.DefaultRatesTimeout)
	cacheTTL, _ := time.ParseDuration(constants.DefaultRatesCacheTTL)
	return &Config{
		Address:        constants.DefaultServerAddress,
		MaxRequestSize: fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes),
		RateLimit: RateLimitConfig{
			Capacity: constants.DefaultRateLimitCapacity,
			Refill:   refill,
		},
		Refresh: RefreshConfig{Schedule: constants.DefaultRefreshSchedule},
		Rates: config.RatesConfig{
			Provider: constants.RateProviderJSON,
			BaseURL:  constants.DefaultRatesBaseURL,
			ECBURL:   constants.DefaultECBURL,
			Timeout:  timeout,
			CacheTTL: cacheTTL,
		},
		requestSizeBytes: constants.DefaultMaxRequestSizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequestSizeBytes returns the configured request body limit in bytes.
func (c *Config) RequestSizeBytes() int64 {
	return c.requestSizeBytes
}

// SetRequestSizeBytes overrides the configured request body limit.
func (c *Config) SetRequestSizeBytes(size int64) {
	if size > 0 {
		c.requestSizeBytes = size
		c.MaxRequestSize = fmt.Sprintf("%d", size)
	}
}

func (c *Config) normalize() error {
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.RateLimit.Capacity < 0 {
		return fmt.Errorf("rate limit capacity must not be negative, got %d", c.RateLimit.Capacity)
	}
	if c.RateLimit.Refill <= 0 {
		c.RateLimit.Refill = defaults.RateLimit.Refill
	}
	if strings.TrimSpace(c.Refresh.Schedule) == "" {
		c.Refresh.Schedule = defaults.Refresh.Schedule
	}
	if c.Rates.Provider == "" {
		c.Rates.Provider = defaults.Rates.Provider
	}
	if c.Rates.Timeout <= 0 {
		c.Rates.Timeout = defaults.Rates.Timeout
	}
	if c.Rates.CacheTTL < 0 {
		return fmt.Errorf("rates cache TTL must not be negative, got %s", c.Rates.CacheTTL)
	}

	sizeStr := strings.TrimSpace(c.MaxRequestSize)
	if sizeStr == "" {
		c.requestSizeBytes = constants.DefaultMaxRequestSizeBytes
		c.MaxRequestSize = fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxRequestSizeBytes
	}
	c.requestSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	if numPart == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
