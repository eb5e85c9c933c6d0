package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrMissingVerificationSecret = errors.New("TURNSTILE_SECRET_KEY is required")
	ErrMissingSinkBaseURL        = errors.New("MAUTIC_URL is required")
)

// Config holds all application configuration values
type Config struct {
	VerificationSecret string        `env:"TURNSTILE_SECRET_KEY"`
	VerifyURL          string        `env:"TURNSTILE_VERIFY_URL" envDefault:"https://challenges.cloudflare.com/turnstile/v0/siteverify"`
	SinkBaseURL        string        `env:"MAUTIC_URL"`
	FormID             int           `env:"MAUTIC_FORM_ID" envDefault:"45"`
	DefaultSource      string        `env:"FORM_DEFAULT_SOURCE" envDefault:"cloudgeeks-website"`
	UpstreamTimeout    time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"5s"`
	Port               string        `env:"PORT" envDefault:"8080"`
	GinMode            string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads an optional .env file, then configuration from environment variables.
// The returned bool reports whether a .env file was found.
func LoadConfig(envFiles ...string) (*Config, bool, error) {
	loadedDotEnv := godotenv.Load(envFiles...) == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, loadedDotEnv, fmt.Errorf("error parsing environment: %w", err)
	}
	cfg.SinkBaseURL = strings.TrimRight(cfg.SinkBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, loadedDotEnv, err
	}
	return cfg, loadedDotEnv, nil
}

// Validate rejects configurations the relay cannot run with.
func (c *Config) Validate() error {
	if c.VerificationSecret == "" {
		return ErrMissingVerificationSecret
	}
	if c.SinkBaseURL == "" {
		return ErrMissingSinkBaseURL
	}
	if c.VerifyURL == "" {
		return errors.New("TURNSTILE_VERIFY_URL must not be empty")
	}
	if c.FormID <= 0 {
		return fmt.Errorf("MAUTIC_FORM_ID must be positive, got %d", c.FormID)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}
