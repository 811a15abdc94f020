// Package config handles configuration loading for edgarscope.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	EDGAR   EDGARConfig   `mapstructure:"edgar"   yaml:"edgar"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// EDGARConfig holds settings for the EDGAR client.
type EDGARConfig struct {
	BaseURL          string `mapstructure:"base_url"          yaml:"base_url"`           // empty = https://www.sec.gov
	UserAgent        string `mapstructure:"user_agent"        yaml:"user_agent"`         // SEC requires a descriptive UA
	RateLimit        int    `mapstructure:"rate_limit"        yaml:"rate_limit"`         // requests per second
	FetchConcurrency int    `mapstructure:"fetch_concurrency" yaml:"fetch_concurrency"`  // parallel content fetches
	FetchTimeoutSec  int    `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`  // per-document fetch timeout
	CacheTTLSec      int    `mapstructure:"cache_ttl_sec"     yaml:"cache_ttl_sec"`      // fetcher cache TTL
}

// FetchTimeout returns the per-fetch timeout as a duration.
func (c EDGARConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// CacheTTL returns the fetcher cache TTL as a duration.
func (c EDGARConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.edgarscope/config.yaml (home directory)
//  3. /etc/edgarscope/config.yaml (system)
//
// Environment variables override config file values.
// Format: EDGARSCOPE_<SECTION>_<KEY>, e.g., EDGARSCOPE_EDGAR_USER_AGENT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".edgarscope"))
	v.AddConfigPath("/etc/edgarscope")

	v.SetEnvPrefix("EDGARSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not required to exist; defaults + env vars suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("EDGARSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// EDGAR defaults. The rate limit stays under SEC's published
	// 10 requests/second ceiling.
	v.SetDefault("edgar.base_url", "")
	v.SetDefault("edgar.user_agent", "edgarscope/1.0 (github.com/seenimoa/edgarscope)")
	v.SetDefault("edgar.rate_limit", 8)
	v.SetDefault("edgar.fetch_concurrency", 4)
	v.SetDefault("edgar.fetch_timeout_sec", 15)
	v.SetDefault("edgar.cache_ttl_sec", 300)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
