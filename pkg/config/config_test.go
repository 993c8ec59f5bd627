package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env to default to dev, got %q", cfg.App.Env)
	}
	if cfg.Catalog.BaseURL != "https://api.escuelajs.co/api/v1" {
		t.Fatalf("unexpected catalog base url: %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.DefaultLimit != 50 {
		t.Fatalf("expected default page size 50, got %d", cfg.Catalog.DefaultLimit)
	}
	if cfg.Storage.Key != "shop-explorer-cart" {
		t.Fatalf("unexpected storage key %q", cfg.Storage.Key)
	}
	if cfg.Confirm.Delay != 500*time.Millisecond {
		t.Fatalf("expected confirm delay 500ms, got %v", cfg.Confirm.Delay)
	}
	if cfg.Confirm.FailureRate != 0.05 {
		t.Fatalf("expected confirm failure rate 0.05, got %v", cfg.Confirm.FailureRate)
	}
	if cfg.Cache.Enabled() {
		t.Fatal("cache should be disabled without a redis url")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvCatalogBaseURL, "http://localhost:9090/api/v1")
	t.Setenv(EnvCacheRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvCacheTTL, "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected IsProd true for %q", cfg.App.Env)
	}
	if cfg.Catalog.BaseURL != "http://localhost:9090/api/v1" {
		t.Fatalf("unexpected catalog base url: %q", cfg.Catalog.BaseURL)
	}
	if !cfg.Cache.Enabled() {
		t.Fatal("cache should be enabled when a redis url is set")
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("expected cache ttl 30s, got %v", cfg.Cache.TTL)
	}
}

func TestLoad_RejectsBadFailureRate(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfirmFailureRate, "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected failure rate outside [0, 1] to return an error")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "Production"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		EnvAppEnv, EnvLogLevel, EnvLogWarnStack,
		EnvCatalogBaseURL, EnvCatalogTimeout, EnvCatalogDefault, EnvCatalogMaxLimit,
		EnvCacheRedisURL, EnvCacheTTL,
		EnvStoragePath, EnvStorageKey,
		EnvConfirmDelay, EnvConfirmFailureRate,
	} {
		// t.Setenv registers cleanup; unset afterwards so defaults apply.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}
