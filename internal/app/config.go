package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/odyssey-erp/backoffice-engine/internal/engine"
	"github.com/odyssey-erp/backoffice-engine/internal/money"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	Currency             string `envconfig:"ENGINE_CURRENCY" default:"INR"`
	RoundingPlaces       int32  `envconfig:"ENGINE_ROUNDING_PLACES" default:"2"`
	RoundingFromCurrency bool   `envconfig:"ENGINE_ROUNDING_FROM_CURRENCY" default:"false"`
	RoundingMode         string `envconfig:"ENGINE_ROUNDING_MODE" default:"half_up"`
	CashRoundingMethod   string `envconfig:"ENGINE_CASH_ROUNDING_METHOD" default:"no_rounding"`
	CashRoundingStep     string `envconfig:"ENGINE_CASH_ROUNDING_STEP" default:"0.01"`
	RequireReturnReason  bool   `envconfig:"ENGINE_REQUIRE_RETURN_REASON" default:"true"`
	AllowNegativeStock   bool   `envconfig:"ENGINE_ALLOW_NEGATIVE_STOCK" default:"false"`

	RedisAddr          string        `envconfig:"REDIS_ADDR"`
	CapabilityCacheTTL time.Duration `envconfig:"CAPABILITY_CACHE_TTL" default:"5m"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.RoundingPlaces < 0 || cfg.RoundingPlaces > 8 {
		return nil, errors.New("rounding places must be between 0 and 8")
	}
	if cfg.CapabilityCacheTTL <= 0 {
		return nil, errors.New("capability cache ttl must be positive")
	}
	if _, err := cfg.EngineConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// EngineConfig converts the environment settings into engine settings.
func (c *Config) EngineConfig() (engine.Config, error) {
	currency := strings.ToUpper(strings.TrimSpace(c.Currency))
	currencyPolicy, err := money.PolicyForCurrency(currency)
	if err != nil {
		return engine.Config{}, err
	}
	mode, err := money.ParseMode(c.RoundingMode)
	if err != nil {
		return engine.Config{}, err
	}
	policy := money.Policy{Places: c.RoundingPlaces, Mode: mode}
	if c.RoundingFromCurrency {
		policy.Places = currencyPolicy.Places
	}
	cash, err := money.ParseCashRounding(c.CashRoundingMethod, c.CashRoundingStep)
	if err != nil {
		return engine.Config{}, fmt.Errorf("cash rounding: %w", err)
	}
	return engine.Config{
		Currency:            currency,
		Policy:              policy,
		CashRounding:        cash,
		RequireReturnReason: c.RequireReturnReason,
		AllowNegativeStock:  c.AllowNegativeStock,
	}, nil
}
