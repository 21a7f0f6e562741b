// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TTL       time.Duration `yaml:"ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type NOWPaymentsConfig struct {
	APIKey      string        `yaml:"api_key"`
	IPNSecret   string        `yaml:"ipn_secret"` // empty = weaker-trust mode, IPNs accepted unverified
	BaseURL     string        `yaml:"base_url"`
	CallbackURL string        `yaml:"callback_url"`
	PayCurrency string        `yaml:"pay_currency"`
	Timeout     time.Duration `yaml:"timeout"`
}

type PaymentConfig struct {
	NOWPayments NOWPaymentsConfig `yaml:"nowpayments"`
}

// CheckoutConfig carries the static pricing and promo tables. Prices are in
// whole USD in the file and converted to cents at load time.
type CheckoutConfig struct {
	Pricing map[string]map[string]float64 `yaml:"pricing"`
	Promos  map[string]float64            `yaml:"promos"`
}

type PredictionConfig struct {
	// Sequence pins the final multiplier of consecutive generations per user.
	// Empty disables the deterministic mode.
	Sequence   []float64     `yaml:"sequence"`
	CounterTTL time.Duration `yaml:"counter_ttl"`
}

type SchedConfig struct {
	PendingPaymentTTL time.Duration `yaml:"pending_payment_ttl"`
	JanitorInterval   time.Duration `yaml:"janitor_interval"`
	ExpiryInterval    time.Duration `yaml:"expiry_interval"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Payment    PaymentConfig    `yaml:"payment"`
	Checkout   CheckoutConfig   `yaml:"checkout"`
	Prediction PredictionConfig `yaml:"prediction"`
	Sched      SchedConfig      `yaml:"sched"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Auth.TTL <= 0 {
		cfg.Auth.TTL = 24 * time.Hour
	}
	np := &cfg.Payment.NOWPayments
	if np.BaseURL == "" {
		np.BaseURL = "https://api.nowpayments.io"
	}
	if np.PayCurrency == "" {
		np.PayCurrency = "usdttrc20"
	}
	if np.Timeout <= 0 {
		np.Timeout = 10 * time.Second
	}
	if len(cfg.Checkout.Pricing) == 0 {
		cfg.Checkout.Pricing = defaultPricing()
	}
	if len(cfg.Checkout.Promos) == 0 {
		cfg.Checkout.Promos = defaultPromos()
	}
	if cfg.Prediction.CounterTTL <= 0 {
		cfg.Prediction.CounterTTL = 24 * time.Hour
	}
	if cfg.Sched.PendingPaymentTTL <= 0 {
		cfg.Sched.PendingPaymentTTL = 24 * time.Hour
	}
	if cfg.Sched.JanitorInterval <= 0 {
		cfg.Sched.JanitorInterval = 15 * time.Minute
	}
	if cfg.Sched.ExpiryInterval <= 0 {
		cfg.Sched.ExpiryInterval = time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if np.APIKey == "" {
		return nil, errors.New("payment.nowpayments.api_key is required")
	}
	if np.CallbackURL == "" {
		return nil, errors.New("payment.nowpayments.callback_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// PricingCents converts the USD pricing table to minor units.
func (c *CheckoutConfig) PricingCents() map[string]map[string]int64 {
	out := make(map[string]map[string]int64, len(c.Pricing))
	for plan, opts := range c.Pricing {
		row := make(map[string]int64, len(opts))
		for label, usd := range opts {
			row[label] = int64(math.Round(usd * 100))
		}
		out[plan] = row
	}
	return out
}

func defaultPricing() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"vip_vup":   {"30 Minutes": 22, "1 Hour": 40, "2 Hours": 70},
		"vip_elite": {"30 Minutes": 66, "1 Hour": 120, "2 Hours": 220, "3 Hours": 300},
	}
}

func defaultPromos() map[string]float64 {
	return map[string]float64{
		"PLUXO20": 0.2,
		"VIP10":   0.1,
		"ELITE5":  0.05,
	}
}
