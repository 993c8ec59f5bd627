package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Cache   CacheConfig
	Storage StorageConfig
	Confirm ConfirmConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Confirm.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points the client at the remote product API.
type CatalogConfig struct {
	BaseURL        string        `envconfig:"STOREFRONT_CATALOG_BASE_URL" default:"https://api.escuelajs.co/api/v1"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_CATALOG_REQUEST_TIMEOUT" default:"15s"`
	DefaultLimit   int           `envconfig:"STOREFRONT_CATALOG_DEFAULT_LIMIT" default:"50"`
	MaxLimit       int           `envconfig:"STOREFRONT_CATALOG_MAX_LIMIT" default:"100"`
}

// CacheConfig enables the optional redis-backed catalog response cache.
// An empty URL leaves caching off.
type CacheConfig struct {
	RedisURL     string        `envconfig:"STOREFRONT_CACHE_REDIS_URL"`
	TTL          time.Duration `envconfig:"STOREFRONT_CACHE_TTL" default:"5m"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_CACHE_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_CACHE_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_CACHE_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a cache backend was configured.
func (c CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// StorageConfig locates the durable local store backing the cart.
type StorageConfig struct {
	Path string `envconfig:"STOREFRONT_STORAGE_PATH" default:"storefront.db"`
	Key  string `envconfig:"STOREFRONT_STORAGE_KEY" default:"shop-explorer-cart"`
}

// ConfirmConfig tunes the simulated add-to-cart acknowledgment.
type ConfirmConfig struct {
	Delay       time.Duration `envconfig:"STOREFRONT_CONFIRM_DELAY" default:"500ms"`
	FailureRate float64       `envconfig:"STOREFRONT_CONFIRM_FAILURE_RATE" default:"0.05"`
}

func (c ConfirmConfig) validate() error {
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return fmt.Errorf("%s must be within [0, 1], got %v", EnvConfirmFailureRate, c.FailureRate)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%s must be non-negative, got %v", EnvConfirmDelay, c.Delay)
	}
	return nil
}
