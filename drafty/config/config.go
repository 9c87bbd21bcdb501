package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/drafty-mcp/drafty"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned by Validate when no credential was configured.
var ErrMissingAPIKey = errors.New(internal.APIKeyEnv + " environment variable is required")

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables
// once at process start and never re-read afterwards.
type Config struct {
	Drafty DraftyConfig `mapstructure:"drafty"`
	Server ServerConfig `mapstructure:"server"`
	Tools  ToolsConfig  `mapstructure:"tools"`
	Log    LogConfig    `mapstructure:"log"`
}

// DraftyConfig stores the remote API connection details.
type DraftyConfig struct {
	APIKey    string        `mapstructure:"api_key"`    // sent as X-Drafty-API-Key
	BaseURL   string        `mapstructure:"base_url"`   // scheme + host, no trailing path
	Timeout   time.Duration `mapstructure:"timeout"`    // per HTTP round trip
	UserAgent string        `mapstructure:"user_agent"` // outbound User-Agent
}

// ServerConfig stores the identity advertised to MCP clients.
type ServerConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ToolsConfig stores tool adapter behaviour.
type ToolsConfig struct {
	ValidateArguments bool            `mapstructure:"validate_arguments"` // check args against the catalog schema before forwarding
	DisplayTimezone   string          `mapstructure:"display_timezone"`   // IANA name or "Local" for list_posts dates
	RateLimit         RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig stores the per-tool token bucket settings.
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Capacity       int           `mapstructure:"capacity"`        // burst size per tool
	RefillInterval time.Duration `mapstructure:"refill_interval"` // one token per interval
}

// LogConfig stores logging options. Logs always go to stderr.
type LogConfig struct {
	Level   string `mapstructure:"level"`   // zerolog level name
	Format  string `mapstructure:"format"`  // "console" or "json"
	Tracing bool   `mapstructure:"tracing"` // emit per-invocation spans
}

// LoadConfig reads configuration from file or environment variables.
// An explicit configPath must exist; without one, a missing config file is fine.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", internal.DefaultAppName))
		}
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Drafty API defaults
	v.SetDefault("drafty.base_url", internal.DefaultBaseURL)
	v.SetDefault("drafty.timeout", "30s")
	v.SetDefault("drafty.user_agent", internal.DefaultUserAgent)

	// Server identity
	v.SetDefault("server.name", internal.DefaultServerName)
	v.SetDefault("server.version", internal.DefaultServerVersion)

	// Tool behaviour
	v.SetDefault("tools.validate_arguments", true)
	v.SetDefault("tools.display_timezone", "Local")
	v.SetDefault("tools.rate_limit.enabled", false)
	v.SetDefault("tools.rate_limit.capacity", 5)
	v.SetDefault("tools.rate_limit.refill_interval", "1s")

	// Logging
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.tracing", true)

	if err := v.BindEnv("drafty.api_key", internal.APIKeyEnv); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", internal.APIKeyEnv, err)
	}
	for key, env := range map[string]string{
		"drafty.base_url":          "DRAFTY_BASE_URL",
		"drafty.timeout":           "DRAFTY_TIMEOUT",
		"tools.validate_arguments": "DRAFTY_VALIDATE_ARGUMENTS",
		"tools.display_timezone":   "DRAFTY_DISPLAY_TIMEZONE",
		"log.level":                "DRAFTY_LOG_LEVEL",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.Drafty.APIKey = strings.TrimSpace(cfg.Drafty.APIKey)
	cfg.Drafty.BaseURL = strings.TrimRight(cfg.Drafty.BaseURL, "/")

	return &cfg, nil
}

// Validate reports configuration that would make serving impossible.
func (c *Config) Validate() error {
	if c.Drafty.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Drafty.BaseURL == "" {
		return fmt.Errorf("drafty.base_url must not be empty")
	}
	if c.Drafty.Timeout < 0 {
		return fmt.Errorf("drafty.timeout must not be negative, got %s", c.Drafty.Timeout)
	}
	if c.Tools.RateLimit.Enabled && (c.Tools.RateLimit.Capacity < 1 || c.Tools.RateLimit.RefillInterval <= 0) {
		return fmt.Errorf("tools.rate_limit needs a positive capacity and refill_interval")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves tools.display_timezone.
func (c *Config) Location() (*time.Location, error) {
	name := c.Tools.DisplayTimezone
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid tools.display_timezone %q: %w", name, err)
	}
	return loc, nil
}
