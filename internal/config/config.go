// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Search  SearchConfig  `mapstructure:"search"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds catalog API client configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"` // Catalog API base URL (or same-origin proxy)
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds durable store configuration
type CacheConfig struct {
	Dir         string        `mapstructure:"dir"`          // Empty = memory-only
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"` // Max age of the session snapshot
}

// SearchConfig holds search behavior configuration
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"` // Input settle interval before a search fires
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://cinemaguide.skillbox.cc",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Dir:         defaultCachePath(),
			SnapshotTTL: time.Hour,
		},
		Search: SearchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("CINESCOPE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinescope")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cinescope")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cinescope", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinescope", "cache")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinescope", "cinescope.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinescope", "cinescope.log")
	}
}
