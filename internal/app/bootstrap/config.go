package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the billing service.
// It merges file defaults and environment overrides to support both local and
// deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	TokenSecret         string
	AllowEphemeralToken bool

	StripeSecretKey string

	BcryptCost int

	TokenTTL        time.Duration
	LockoutDuration time.Duration
	FailedThreshold int

	DefaultCurrency string
	IdempotencyTTL  time.Duration
	ChargeGuardTTL  time.Duration

	Plans []PlanConfig

	MaxDBConns         int32
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
}

// PlanConfig is one catalog entry as configured. Price is in minor units.
type PlanConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    int64  `yaml:"price"`
	Currency string `yaml:"currency"`
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Billing struct {
		DefaultCurrency string       `yaml:"default_currency"`
		Plans           []PlanConfig `yaml:"plans"`
	} `yaml:"billing"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:           "amnii-waf-billing",
		HTTPPort:            8080,
		GRPCPort:            9090,
		AllowEphemeralToken: true,
		BcryptCost:          12,
		TokenTTL:            24 * time.Hour,
		LockoutDuration:     30 * time.Minute,
		FailedThreshold:     5,
		DefaultCurrency:     "usd",
		IdempotencyTTL:      24 * time.Hour,
		ChargeGuardTTL:      2 * time.Minute,
		MaxDBConns:          20,
		OutboxPollInterval:  2 * time.Second,
		OutboxBatchSize:     100,
		OutboxClaimTTL:      30 * time.Second,
		OutboxMaxRetries:    5,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Billing.DefaultCurrency != "" {
			cfg.DefaultCurrency = f.Billing.DefaultCurrency
		}
		if len(f.Billing.Plans) > 0 {
			cfg.Plans = f.Billing.Plans
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.TokenSecret = envOrDefault("TOKEN_SECRET", cfg.TokenSecret)
	cfg.AllowEphemeralToken = envBool("TOKEN_ALLOW_EPHEMERAL", cfg.AllowEphemeralToken)
	cfg.StripeSecretKey = envOrDefault("STRIPE_SECRET_KEY", cfg.StripeSecretKey)
	cfg.DefaultCurrency = envOrDefault("DEFAULT_CURRENCY", cfg.DefaultCurrency)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedThreshold)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.TokenTTL = time.Duration(envInt("TOKEN_EXPIRY_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.ChargeGuardTTL = time.Duration(envInt("CHARGE_GUARD_TTL_SECONDS", int(cfg.ChargeGuardTTL.Seconds()))) * time.Second
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_TTL_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("missing STRIPE_SECRET_KEY")
	}
	if cfg.TokenSecret == "" && !cfg.AllowEphemeralToken {
		return Config{}, fmt.Errorf("missing TOKEN_SECRET")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
