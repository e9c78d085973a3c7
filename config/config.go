// Package config loads folio settings from TOML files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/performance"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// EnvPrefix prefixes every environment override, e.g. FOLIO_BASE_CURRENCY.
const EnvPrefix = "FOLIO_"

// Config holds all configuration for folio.
type Config struct {
	BaseCurrency string            `toml:"base_currency" env:"BASE_CURRENCY"`
	Performance  PerformanceConfig `toml:"performance" envPrefix:"PERFORMANCE_"`
	CGT          CGTConfig         `toml:"cgt" envPrefix:"CGT_"`
	Logging      LoggingConfig     `toml:"logging" envPrefix:"LOG_"`
}

// PerformanceConfig configures the performance calculator. Decimals are
// written as strings, e.g. risk_free_rate = "0.02".
type PerformanceConfig struct {
	RiskFreeRate            decimal.Decimal `toml:"risk_free_rate" env:"RISK_FREE_RATE"`
	MinimumAcceptableReturn decimal.Decimal `toml:"minimum_acceptable_return" env:"MINIMUM_ACCEPTABLE_RETURN"`
	Period                  date.Period     `toml:"period" env:"PERIOD"`
	DrawdownThreshold       decimal.Decimal `toml:"drawdown_threshold" env:"DRAWDOWN_THRESHOLD"`
}

// CGTConfig configures tax reports. The discount rate is fixed by law.
type CGTConfig struct {
	ReportTransactions bool `toml:"report_transactions" env:"REPORT_TRANSACTIONS"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Pretty bool   `toml:"pretty" env:"PRETTY"` // human friendly console output instead of JSON
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		BaseCurrency: "AUD",
		Performance: PerformanceConfig{
			RiskFreeRate:            decimal.RequireFromString("0.02"),
			MinimumAcceptableReturn: decimal.Zero,
			Period:                  date.Daily,
			DrawdownThreshold:       decimal.Zero,
		},
		CGT: CGTConfig{ReportTransactions: true},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads the configuration files in order, later files overriding
// earlier ones, then applies environment overrides. Missing files are
// skipped.
func Load(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects unknown currencies, negative thresholds and unknown log levels.
func (c *Config) Validate() error {
	if !folio.ValidCurrency(c.BaseCurrency) {
		return fmt.Errorf("invalid config: unknown base currency %q", c.BaseCurrency)
	}
	if c.Performance.DrawdownThreshold.IsNegative() {
		return fmt.Errorf("invalid config: negative drawdown threshold %s", c.Performance.DrawdownThreshold)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CalculatorOptions returns the performance calculator options.
func (p PerformanceConfig) CalculatorOptions() []performance.Option {
	return []performance.Option{
		performance.WithRiskFreeRate(p.RiskFreeRate),
		performance.WithMinimumAcceptableReturn(p.MinimumAcceptableReturn),
		performance.WithDrawdownThreshold(p.DrawdownThreshold),
	}
}
