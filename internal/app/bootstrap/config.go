package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the privileges service.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	// JWTPublicKeyPEM verifies member tokens minted by the membership
	// platform. This service never signs tokens.
	JWTPublicKeyPEM string
	JWTIssuer       string

	CodeTTL                time.Duration
	DefaultMaxUses         int
	LowStockThresholdPct   int
	CodeGenerationAttempts int
	OfferCacheTTL          time.Duration
	IdempotencyTTL         time.Duration
	DefaultPageSize        int
	MaxPageSize            int

	MaxDBConns         int32
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int
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
	Auth struct {
		PublicKeyPEM string `yaml:"public_key_pem"`
		Issuer       string `yaml:"issuer"`
	} `yaml:"auth"`
	Codes struct {
		TTLDays              int `yaml:"ttl_days"`
		DefaultMaxUses       int `yaml:"default_max_uses"`
		LowStockThresholdPct int `yaml:"low_stock_threshold_pct"`
		GenerationAttempts   int `yaml:"generation_attempts"`
	} `yaml:"codes"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:              "privileges-service",
		HTTPPort:               8080,
		GRPCPort:               9090,
		CodeTTL:                30 * 24 * time.Hour,
		DefaultMaxUses:         1,
		LowStockThresholdPct:   20,
		CodeGenerationAttempts: 5,
		OfferCacheTTL:          30 * time.Second,
		IdempotencyTTL:         24 * time.Hour,
		DefaultPageSize:        20,
		MaxPageSize:            100,
		MaxDBConns:             20,
		OutboxPollInterval:     2 * time.Second,
		OutboxBatchSize:        100,
		OutboxClaimTTL:         30 * time.Second,
		OutboxMaxRetries:       5,
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
		if f.Auth.PublicKeyPEM != "" {
			cfg.JWTPublicKeyPEM = f.Auth.PublicKeyPEM
		}
		if f.Auth.Issuer != "" {
			cfg.JWTIssuer = f.Auth.Issuer
		}
		if f.Codes.TTLDays > 0 {
			cfg.CodeTTL = time.Duration(f.Codes.TTLDays) * 24 * time.Hour
		}
		if f.Codes.DefaultMaxUses > 0 {
			cfg.DefaultMaxUses = f.Codes.DefaultMaxUses
		}
		if f.Codes.LowStockThresholdPct > 0 {
			cfg.LowStockThresholdPct = f.Codes.LowStockThresholdPct
		}
		if f.Codes.GenerationAttempts > 0 {
			cfg.CodeGenerationAttempts = f.Codes.GenerationAttempts
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.JWTPublicKeyPEM = envOrDefault("JWT_PUBLIC_KEY_PEM", cfg.JWTPublicKeyPEM)
	cfg.JWTIssuer = envOrDefault("JWT_ISSUER", cfg.JWTIssuer)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.CodeTTL = time.Duration(envInt("CODE_TTL_DAYS", int(cfg.CodeTTL.Hours()/24))) * 24 * time.Hour
	cfg.DefaultMaxUses = envInt("CODE_DEFAULT_MAX_USES", cfg.DefaultMaxUses)
	cfg.LowStockThresholdPct = envInt("LOW_STOCK_THRESHOLD_PCT", cfg.LowStockThresholdPct)
	cfg.CodeGenerationAttempts = envInt("CODE_GENERATION_ATTEMPTS", cfg.CodeGenerationAttempts)
	cfg.OfferCacheTTL = time.Duration(envInt("OFFER_CACHE_TTL_SECONDS", int(cfg.OfferCacheTTL.Seconds()))) * time.Second
	cfg.IdempotencyTTL = time.Duration(envInt("IDEMPOTENCY_TTL_HOURS", int(cfg.IdempotencyTTL.Hours()))) * time.Hour
	cfg.DefaultPageSize = envInt("DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.MaxPageSize = envInt("MAX_PAGE_SIZE", cfg.MaxPageSize)

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
	if cfg.JWTPublicKeyPEM == "" {
		return Config{}, fmt.Errorf("missing JWT_PUBLIC_KEY_PEM")
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
