package config

import (
	"fmt"

	pkgconfig "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/config"
)

// Config holds all configuration for the cart engine.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CART_HTTP_PORT" envDefault:"8003"`

	// Redis (durable slot + cross-context notifications)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// SlotKey is the well-known key the cart snapshot lives under; it matches
	// the storefront's localStorage key.
	SlotKey string `env:"CART_SLOT_KEY" envDefault:"cart"`

	// SyncChannel carries change notifications between contexts.
	SyncChannel string `env:"CART_SYNC_CHANNEL" envDefault:"cart.sync"`

	// Snapshot TTL in hours (default: 7 days). Zero disables expiry.
	SnapshotTTL int `env:"CART_SNAPSHOT_TTL_HOURS" envDefault:"168"`

	// Default rates used for totals when the caller does not override them.
	// IVA 19%, no standing discount.
	TaxRate      float64 `env:"CART_TAX_RATE" envDefault:"0.19"`
	DiscountRate float64 `env:"CART_DISCOUNT_RATE" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load cart config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.TaxRate < 0 || c.TaxRate > 1 {
		return fmt.Errorf("CART_TAX_RATE must be between 0 and 1, got %v", c.TaxRate)
	}
	if c.DiscountRate < 0 || c.DiscountRate > 1 {
		return fmt.Errorf("CART_DISCOUNT_RATE must be between 0 and 1, got %v", c.DiscountRate)
	}
	if c.SlotKey == "" {
		return fmt.Errorf("CART_SLOT_KEY must not be empty")
	}
	if c.SnapshotTTL < 0 {
		return fmt.Errorf("CART_SNAPSHOT_TTL_HOURS must not be negative, got %d", c.SnapshotTTL)
	}
	return nil
}
