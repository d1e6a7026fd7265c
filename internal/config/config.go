// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Expiry policies for rejected tokens: one configurable choice applied by
// the root model to every session-invalid signal.
const (
	// ExpirySignIn forces the sign-in view whenever a stored token is rejected.
	ExpirySignIn = "signin"
	// ExpiryNotify only surfaces a message and leaves the current view alone.
	ExpiryNotify = "notify"
)

// Config holds application configuration values loaded from file or
// environment variables.
type Config struct {
	APIBaseURL    string        `mapstructure:"API_BASE_URL"`
	StaticOrigin  string        `mapstructure:"STATIC_ORIGIN"`
	HTTPTimeout   time.Duration `mapstructure:"HTTP_TIMEOUT"`
	SessionFile   string        `mapstructure:"SESSION_FILE"`
	LogFile       string        `mapstructure:"LOG_FILE"`
	DefaultAvatar string        `mapstructure:"DEFAULT_AVATAR"`
	ExpiryPolicy  string        `mapstructure:"EXPIRY_POLICY"`
	Env           string        `mapstructure:"APP_ENV"`
}

// LoadConfig loads application configuration from file and environment
// variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	_ = viper.ReadInConfig()

	viper.SetDefault("API_BASE_URL", "http://localhost:3006")
	viper.SetDefault("STATIC_ORIGIN", "")
	// Zero means calls are bounded only by their context.
	viper.SetDefault("HTTP_TIMEOUT", "0s")
	viper.SetDefault("SESSION_FILE", "")
	viper.SetDefault("LOG_FILE", "mgfeed.log")
	viper.SetDefault("DEFAULT_AVATAR", "/uploads/1732403161387_api.png")
	viper.SetDefault("EXPIRY_POLICY", ExpirySignIn)
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Media URLs are formed by prefixing the API origin unless a dedicated
	// static origin is configured.
	if config.StaticOrigin == "" {
		config.StaticOrigin = config.APIBaseURL
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if c.ExpiryPolicy != ExpirySignIn && c.ExpiryPolicy != ExpiryNotify {
		return fmt.Errorf("EXPIRY_POLICY must be %q or %q, got %q", ExpirySignIn, ExpiryNotify, c.ExpiryPolicy)
	}
	if c.HTTPTimeout < 0 {
		return errors.New("HTTP_TIMEOUT must not be negative")
	}
	return nil
}
