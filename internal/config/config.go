// Package config defines the CLI configuration and loads it through viper.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/calckit/pkg/constants"
	"github.com/iwvelando/calckit/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for calckit.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Rates   RatesConfig   `yaml:"rates,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// RatesConfig selects and tunes the currency rate provider.
type RatesConfig struct {
	Provider      string        `yaml:"provider,omitempty"` // json, ecb
	BaseURL       string        `yaml:"baseURL,omitempty"`
	ECBURL        string        `yaml:"ecbURL,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	CacheTTL      time.Duration `yaml:"cacheTTL,omitempty"`
	RedisAddr     string        `yaml:"redisAddr,omitempty"` // empty uses an in-memory cache
	RedisPassword string        `yaml:"redisPassword,omitempty"`
	RedisDB       int           `yaml:"redisDB,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("rates.provider", constants.RateProviderJSON)
	v.SetDefault("rates.baseURL", constants.DefaultRatesBaseURL)
	v.SetDefault("rates.ecbURL", constants.DefaultECBURL)
	v.SetDefault("rates.timeout", constants.DefaultRatesTimeout)
	v.SetDefault("rates.cacheTTL", constants.DefaultRatesCacheTTL)
	v.SetDefault("rates.redisAddr", "")
	v.SetDefault("rates.redisPassword", "")
	v.SetDefault("rates.redisDB", 0)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults plus any
// CALCKIT_* environment overrides.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads configuration of the given type (yaml,
// json, toml) from r.
func LoadConfigurationFromReader(r io.Reader, configType string) (*Configuration, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the configuration for unsupported values.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	switch c.Rates.Provider {
	case constants.RateProviderJSON, constants.RateProviderECB:
	default:
		return fmt.Errorf("expected rates provider of %s or %s, got %s",
			constants.RateProviderJSON, constants.RateProviderECB, c.Rates.Provider)
	}
	if c.Rates.Timeout <= 0 {
		return fmt.Errorf("rates timeout must be positive, got %s", c.Rates.Timeout)
	}
	if c.Rates.CacheTTL < 0 {
		return fmt.Errorf("rates cache TTL must not be negative, got %s", c.Rates.CacheTTL)
	}
	return nil
}
