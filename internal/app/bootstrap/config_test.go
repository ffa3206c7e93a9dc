package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
service:
  id: billing-test
  http_port: 8181
dependencies:
  postgres_url: postgres://file-host/db
  redis_url: redis://file-host:6379/0
billing:
  default_currency: eur
  plans:
    - id: starter
      name: Starter
      price: 1000
`)

	t.Setenv("DB_URL", "postgres://env-host/db")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("TOKEN_EXPIRY_HOURS", "2")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.ServiceID != "billing-test" {
		t.Fatalf("service id %q, want billing-test", cfg.ServiceID)
	}
	if cfg.HTTPPort != 8181 {
		t.Fatalf("http port %d, want 8181 from file", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://env-host/db" {
		t.Fatalf("database url %q, env must override file", cfg.DatabaseURL)
	}
	if cfg.RedisURL != "redis://file-host:6379/0" {
		t.Fatalf("redis url %q, want file value", cfg.RedisURL)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("token ttl %s, want 2h from env", cfg.TokenTTL)
	}
	if cfg.DefaultCurrency != "eur" {
		t.Fatalf("default currency %q, want eur", cfg.DefaultCurrency)
	}
	if len(cfg.Plans) != 1 || cfg.Plans[0].ID != "starter" || cfg.Plans[0].Price != 1000 {
		t.Fatalf("plans not loaded from file: %+v", cfg.Plans)
	}
}

func TestLoadConfigRequiresCriticalSettings(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("STRIPE_SECRET_KEY", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error when database url is missing")
	}

	t.Setenv("DB_URL", "postgres://localhost/db")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error when redis url is missing")
	}

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error when stripe key is missing")
	}

	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Fatalf("unexpected error with all critical settings present: %v", err)
	}
}
