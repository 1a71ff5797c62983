package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Client captures what the command line tool needs to reach Sympa.
type Client struct {
	URL      string
	Email    string
	Password string
	LogLevel slog.Level
	Timeout  time.Duration
}

// DefaultTimeout applies when SYMPA_TIMEOUT is unset.
var DefaultTimeout = 30 * time.Second

// FromEnv builds a Client config from environment variables so main stays lean.
func FromEnv() (Client, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Client, error) {
	cfg := Client{
		URL:      strings.TrimSpace(getenv("SYMPA_URL")),
		Email:    strings.TrimSpace(getenv("SYMPA_EMAIL")),
		Password: getenv("SYMPA_PASSWORD"),
		LogLevel: slog.LevelInfo,
		Timeout:  DefaultTimeout,
	}

	if cfg.URL == "" {
		return cfg, errors.New("SYMPA_URL is required")
	}

	if level := getenv("SYMPA_LOG_LEVEL"); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return cfg, fmt.Errorf("SYMPA_LOG_LEVEL: %w", err)
		}
	}

	if timeout := getenv("SYMPA_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return cfg, fmt.Errorf("SYMPA_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("SYMPA_TIMEOUT must be positive, got %s", d)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// HasCredentials reports whether both email and password are set.
func (c Client) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}
