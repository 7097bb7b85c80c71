// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the client. Tags carry the full
// variable name so unprefixed variables like HOME are never read.
type Config struct {
	APIURL     string        `envconfig:"TICKETERA_API_URL" default:"http://localhost:8080"`
	WebURL     string        `envconfig:"TICKETERA_WEB_URL"`
	Home       string        `envconfig:"TICKETERA_HOME"`
	Timeout    time.Duration `envconfig:"TICKETERA_TIMEOUT" default:"30s"`
	StaleAfter time.Duration `envconfig:"TICKETERA_STALE_AFTER" default:"168h"`
	LogLevel   string        `envconfig:"TICKETERA_LOG_LEVEL" default:"info"`
	LogFormat  string        `envconfig:"TICKETERA_LOG_FORMAT"`
}

// Load reads configuration from TICKETERA_* environment variables and fills
// in derived defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".ticketera")
	}
	return &cfg, cfg.Validate()
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid API URL %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.StaleAfter <= 0 {
		return errors.New("config: stale threshold must be positive")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

// SessionPath is the durable session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Home, "session.json")
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Home, "ticketera.log")
}

// FrontendURL is the web frontend opened by the open command.
func (c *Config) FrontendURL() string {
	if c.WebURL != "" {
		return c.WebURL
	}
	return c.APIURL
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("config: unknown log level %q", s)
	}
	return l, nil
}
