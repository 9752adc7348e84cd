// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// minSecretLen is the minimum accepted HMAC signing secret length in bytes.
// Anything shorter than the HS256 block size weakens the MAC.
const minSecretLen = 32

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSecret is the HMAC signing secret for session tokens. Required; at least 32 bytes.
	JWTSecret string `mapstructure:"JWT_SECRET"`
	// JWTPreviousSecret optionally holds the prior signing secret. Tokens signed
	// with it still verify during a secret rotation window; new tokens always
	// use JWTSecret.
	JWTPreviousSecret string `mapstructure:"JWT_PREVIOUS_SECRET"`
	// JWTIssuer is the iss claim (e.g. "ems-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "ems-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "45m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// RedisURL, when set, backs the session registry with Redis instead of the
	// in-process store (e.g. redis://localhost:6379/0).
	RedisURL string `mapstructure:"REDIS_URL"`
	// SessionSweepSchedule is the cron expression for sweeping expired entries
	// out of the in-memory session registry. Empty disables the sweeper.
	// Ignored when RedisURL is set (Redis expires keys itself).
	SessionSweepSchedule string `mapstructure:"SESSION_SWEEP_SCHEDULE"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_PREVIOUS_SECRET", "")
	v.SetDefault("JWT_ISSUER", "ems-auth")
	v.SetDefault("JWT_AUDIENCE", "ems-api")
	v.SetDefault("JWT_ACCESS_TTL", "45m")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SESSION_SWEEP_SCHEDULE", "@every 10m")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET must be set")
	}
	if len(cfg.JWTSecret) < minSecretLen {
		return nil, errors.New("config: JWT_SECRET must be at least 32 bytes")
	}
	if s := cfg.JWTPreviousSecret; s != "" && len(s) < minSecretLen {
		return nil, errors.New("config: JWT_PREVIOUS_SECRET must be at least 32 bytes when set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 45m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 45 * time.Minute
	}
	return d
}

// RefreshTTL parses JWTRefreshTTL as a time.Duration. Returns 168h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTRefreshTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// PreviousSecret returns JWTPreviousSecret as bytes, or nil when unset.
func (c *Config) PreviousSecret() []byte {
	if c.JWTPreviousSecret == "" {
		return nil
	}
	return []byte(c.JWTPreviousSecret)
}
