package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	Redis    RedisConfig
	Cart     CartConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_CATALOG_REQUEST_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CartConfig struct {
	// SnapshotTTL bounds how long an abandoned cart snapshot survives in Redis.
	SnapshotTTL time.Duration `envconfig:"STOREFRONT_CART_SNAPSHOT_TTL" default:"720h"`
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration `envconfig:"STOREFRONT_CHECKOUT_PROCESSING_DELAY" default:"600ms"`
	FailureRate     float64       `envconfig:"STOREFRONT_CHECKOUT_FAILURE_RATE" default:"0"`
}

func (c CheckoutConfig) validate() error {
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return fmt.Errorf("%s must be within [0, 1]", EnvCheckoutFailureRate)
	}
	if c.ProcessingDelay < 0 {
		return fmt.Errorf("%s must be non-negative", EnvCheckoutProcessingDelay)
	}
	return nil
}
