package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL          string `env:"DATABASE_URL"`
	NetlifyDatabaseURL   string `env:"NETLIFY_DATABASE_URL"`
	NetlifyUnpooledURL   string `env:"NETLIFY_DATABASE_URL_UNPOOLED"`
	RequireRemoteDB      bool   `env:"REQUIRE_REMOTE_DB" envDefault:"false"`
	AppHost              string `env:"APP_HOST" envDefault:":8080"`
	JWTSecret            string `env:"JWT_SECRET"`
	MigrationsDir        string `env:"MIGRATIONS_DIR" envDefault:"./migrations"`
	SnapshotPath         string `env:"SNAPSHOT_PATH" envDefault:"./data/workspace.json"`
	LogLevel             string `env:"LOG_LEVEL" envDefault:"info"`
	Version              string `env:"APP_VERSION" envDefault:"dev"`
	ImportConflictPolicy string `env:"IMPORT_CONFLICT_POLICY" envDefault:"skip"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	Resolver ResolverOptions
	Login    LoginOptions
	Sheets   SheetsOptions
}

type ResolverOptions struct {
	MaxLookups int           `env:"RESOLVER_MAX_LOOKUPS" envDefault:"8"`
	Timeout    time.Duration `env:"RESOLVER_TIMEOUT" envDefault:"5s"`
}

type LoginOptions struct {
	RateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	RateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

type SheetsOptions struct {
	CredentialsJSON string `env:"GOOGLE_SHEETS_CREDENTIALS_JSON"`
	CredentialsFile string `env:"GOOGLE_SHEETS_CREDENTIALS_FILE"`
}

// Enabled reports whether Google Sheets credentials were provided.
func (s SheetsOptions) Enabled() bool {
	return s.CredentialsJSON != "" || s.CredentialsFile != ""
}

// Load reads the given .env files, without overriding variables already set in
// the process environment, and parses the configuration.
func Load(files ...string) (*Config, error) {
	var existing []string
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Login.RateLimit <= 0 {
		return nil, fmt.Errorf("LOGIN_RATE_LIMIT must be positive, got %d", cfg.Login.RateLimit)
	}

	return cfg, nil
}

// DSN is the first configured database URL.
func (c *Config) DSN() string {
	for _, candidate := range []string{c.DatabaseURL, c.NetlifyDatabaseURL, c.NetlifyUnpooledURL} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate
		}
	}
	return ""
}

// Validate checks the settings needed to reach the database.
func (c *Config) Validate() error {
	dsn := c.DSN()
	if dsn == "" {
		return errors.New("no database URL configured (DATABASE_URL or NETLIFY_DATABASE_URL)")
	}
	if c.RequireRemoteDB && isLocalhost(dsn) {
		return errors.New("database URL points to localhost; set a remote DATABASE_URL")
	}
	return nil
}

func isLocalhost(dsn string) bool {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return strings.Contains(dsn, "localhost") || strings.Contains(dsn, "127.0.0.1")
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
