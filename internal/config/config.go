// Package config loads and validates server config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultEnvFile читается, если путь к конфигу не задан явно
const DefaultEnvFile = ".env"

// minSessionTTL минимальный SESSION_TTL
const minSessionTTL = time.Second

// Config holds server configuration loaded from the environment.
type Config struct {
	// ServerAddr is the address the HTTP server listens on (e.g. :3000).
	ServerAddr string `mapstructure:"SERVER_ADDR"`
	// DBDriver is either "sqlite" or "postgres".
	DBDriver string `mapstructure:"DB_DRIVER"`
	// DatabaseURL is a file path for sqlite or a DSN for postgres.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SessionTTL is the session lifetime (e.g. "168h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	// SessionSweepInterval is how often expired sessions are purged.
	SessionSweepInterval string `mapstructure:"SESSION_SWEEP_INTERVAL"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// KDFIterations is the PBKDF2 iteration count for new and verified passwords.
	KDFIterations int `mapstructure:"KDF_ITERATIONS"`
	// CookieSecure sets the Secure attribute on the session cookie.
	CookieSecure bool `mapstructure:"COOKIE_SECURE"`
}

// Load reads envFile (DefaultEnvFile when empty), then builds and validates Config
// from the environment via Viper. A missing default .env is ignored; an explicitly
// requested file must exist. Env vars override the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && explicit {
		return nil, fmt.Errorf("config: read %s: %w", envFile, err)
	}

	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDR", ":3000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "gophtodo.db")
	v.SetDefault("SESSION_TTL", "168h") // 7d
	v.SetDefault("SESSION_SWEEP_INTERVAL", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("KDF_ITERATIONS", 120000)
	v.SetDefault("COOKIE_SECURE", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ServerAddr == "" {
		return errors.New("config: SERVER_ADDR must be set")
	}

	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("config: DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}

	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL must be set")
	}

	// Max-Age cookie в секундах: меньше секунды превращается в session cookie браузера
	if d, err := time.ParseDuration(c.SessionTTL); err != nil || d < minSessionTTL {
		return fmt.Errorf("config: SESSION_TTL must be a duration of at least %s, got %q", minSessionTTL, c.SessionTTL)
	}

	if d, err := time.ParseDuration(c.SessionSweepInterval); err != nil || d <= 0 {
		return fmt.Errorf("config: SESSION_SWEEP_INTERVAL must be a positive duration, got %q", c.SessionSweepInterval)
	}

	if c.KDFIterations <= 0 {
		return errors.New("config: KDF_ITERATIONS must be positive")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}

	return nil
}

// SessionTTLDuration parses SessionTTL. Returns 168h if unset or invalid.
func (c *Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// SweepInterval parses SessionSweepInterval. Returns 10m if unset or invalid.
func (c *Config) SweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SessionSweepInterval)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
