package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"parkyard/internal/pricing"
	libconfig "parkyard/libs/config"
)

// Config defines the parking service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"PARKYARD_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"PARKYARD_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"PARKYARD_REDIS_ADDR"`
		Password string `yaml:"password" env:"PARKYARD_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"PARKYARD_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"PARKYARD_REDIS_TTL"`
	} `yaml:"redis"`
	Pricing struct {
		FirstHourRate      string `yaml:"firstHourRate" env:"PARKYARD_FIRST_HOUR_RATE"`
		AdditionalHourRate string `yaml:"additionalHourRate" env:"PARKYARD_ADDITIONAL_HOUR_RATE"`
	} `yaml:"pricing"`
}

// Load reads configuration via the shared helper and validates it. Redis is
// optional; with no addr the active-session cache is disabled.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.TTL = 86400
	cfg.Pricing.FirstHourRate = pricing.DefaultFirstHourRate
	cfg.Pricing.AdditionalHourRate = pricing.DefaultAdditionalHourRate

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if _, err := cfg.PricingEngine(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// ActiveSessionTTL returns the cache TTL as a duration.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// PricingEngine parses the configured rates. Rates are exact decimal strings;
// binary floating point never touches monetary values.
func (c *Config) PricingEngine() (*pricing.Engine, error) {
	first, err := decimal.NewFromString(strings.TrimSpace(c.Pricing.FirstHourRate))
	if err != nil {
		return nil, fmt.Errorf("config: first hour rate: %w", err)
	}
	additional, err := decimal.NewFromString(strings.TrimSpace(c.Pricing.AdditionalHourRate))
	if err != nil {
		return nil, fmt.Errorf("config: additional hour rate: %w", err)
	}
	if first.IsNegative() || additional.IsNegative() {
		return nil, errors.New("config: pricing rates must not be negative")
	}
	return pricing.NewEngine(first, additional), nil
}
