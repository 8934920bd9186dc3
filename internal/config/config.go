// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// RedisAddr is the Redis host:port for the token revocation cache; empty disables the cache.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// RedisPassword is the Redis AUTH password, if any.
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file; used with JWT_PUBLIC_KEY for RS256/ES256.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; used with JWT_PRIVATE_KEY.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim (e.g. "inkwell-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "inkwell-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the access token lifetime (e.g. "1h").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// JWTRefreshTTL is the refresh token lifetime (e.g. "168h").
	JWTRefreshTTL string `mapstructure:"JWT_REFRESH_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// MaxSessionsPerUser caps concurrently active sessions per user; the oldest
	// sessions are revoked at login once the cap is reached. Default 5.
	MaxSessionsPerUser int `mapstructure:"MAX_SESSIONS_PER_USER"`
	// StrictIPValidation revokes a session when a request arrives from an IP that
	// differs from the one the session was issued to. Off by default: deployments
	// behind rotating proxies or CDNs would see false positives.
	StrictIPValidation bool `mapstructure:"STRICT_IP_VALIDATION"`
	// ResetTokenTTL is the password-reset token lifetime (e.g. "1h").
	ResetTokenTTL string `mapstructure:"RESET_TOKEN_TTL"`
	// VerifyTokenTTL is the email-verification token lifetime (e.g. "24h").
	VerifyTokenTTL string `mapstructure:"VERIFY_TOKEN_TTL"`
	// CacheTimeout bounds every revocation-cache call (e.g. "2s"). A timed-out
	// read is treated as not-revoked; session repository reads never get this treatment.
	CacheTimeout string `mapstructure:"CACHE_TIMEOUT"`
	// SweepGrace is how long past expiry a session row must be before cmd/sweep deletes it (e.g. "720h").
	SweepGrace string `mapstructure:"SWEEP_GRACE"`
	// OTLPEndpoint is the OTLP gRPC endpoint for metrics (e.g. http://localhost:4317); empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
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

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_ISSUER", "inkwell-auth")
	v.SetDefault("JWT_AUDIENCE", "inkwell-api")
	v.SetDefault("JWT_ACCESS_TTL", "1h")
	v.SetDefault("JWT_REFRESH_TTL", "168h") // 7d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("MAX_SESSIONS_PER_USER", 5)
	v.SetDefault("STRICT_IP_VALIDATION", false)
	v.SetDefault("RESET_TOKEN_TTL", "1h")
	v.SetDefault("VERIFY_TOKEN_TTL", "24h")
	v.SetDefault("CACHE_TIMEOUT", "2s")
	v.SetDefault("SWEEP_GRACE", "720h") // 30d
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.MaxSessionsPerUser < 1 {
		return nil, errors.New("config: MAX_SESSIONS_PER_USER must be at least 1")
	}

	return &cfg, nil
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return time.Hour
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

// ResetTTL parses ResetTokenTTL as a time.Duration. Returns 1h if unset or invalid.
func (c *Config) ResetTTL() time.Duration {
	d, err := time.ParseDuration(c.ResetTokenTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// VerifyTTL parses VerifyTokenTTL as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) VerifyTTL() time.Duration {
	d, err := time.ParseDuration(c.VerifyTokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// CacheCallTimeout parses CacheTimeout as a time.Duration. Returns 2s if unset or invalid.
func (c *Config) CacheCallTimeout() time.Duration {
	d, err := time.ParseDuration(c.CacheTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// SweepGraceDuration parses SweepGrace as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) SweepGraceDuration() time.Duration {
	d, err := time.ParseDuration(c.SweepGrace)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}
