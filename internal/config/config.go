package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the habit service.
// Environment variables are parsed from the HABITLOOP_ prefix, e.g.
// HABITLOOP_HTTP_PORT, HABITLOOP_POSTGRES_DSN.
type Config struct {
	// Build target selects the high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver: sqlite | postgres | auto
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration (local build target)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"habitloop.db"`

	// TimeZone is the IANA zone all calendar-day bucketing happens in.
	// Streaks and weekly series are computed against this zone.
	TimeZone string `envconfig:"TIME_ZONE" default:"UTC"`

	// StartupHealthTimeout bounds how long Run waits for dependencies.
	StartupHealthTimeout time.Duration `envconfig:"STARTUP_HEALTH_TIMEOUT" default:"30s"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string
	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"sqlite": true, "postgres": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("unsupported TIME_ZONE: %s", c.TimeZone)
	}
	return nil
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// New creates a Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("HABITLOOP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("time_zone", cfg.TimeZone).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests: sqlite driver,
// UTC bucketing, no external dependencies.
func NewForTesting() *Config {
	cfg := &Config{
		BuildTarget:          "local",
		DBDriver:             "sqlite",
		HTTPPort:             8080,
		SQLitePath:           ":memory:",
		TimeZone:             "UTC",
		StartupHealthTimeout: 5 * time.Second,
	}
	return cfg
}
