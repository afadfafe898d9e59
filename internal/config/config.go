// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avolet/govodmatch/internal/constants"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
	// Default database path
	defaultDatabasePath = "./data.db"
)

// Config holds the application configuration.
// It supports loading from environment variables and JSON files.
type Config struct {
	// Catalog metadata source
	TMDBAPIKey string `json:"TMDB_API_KEY"`

	// Operator access: one shared password plus the secret signing the
	// session cookie.
	AdminPassword string `json:"ADMIN_PASSWORD"`
	SessionSecret string `json:"SESSION_SECRET"`

	// Storage settings
	DatabasePath string        `json:"DATABASE_PATH"`
	CacheSize    int           `json:"CACHE_SIZE"`
	CacheTTL     time.Duration `json:"CACHE_TTL"`

	// HTTP settings
	Port string `json:"PORT"`
}

// Load reads configuration from an optional JSON file and environment
// variables. Environment variables take precedence over file values.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	cfg := &Config{
		CacheSize:    constants.DefaultCacheSize,
		CacheTTL:     time.Duration(constants.DefaultCacheTTL) * time.Hour,
		DatabasePath: defaultDatabasePath,
		Port:         constants.DefaultPort,
	}

	// Load from config file if exists
	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Environment overrides file values
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if tmdbKey := os.Getenv("TMDB_API_KEY"); tmdbKey != "" {
		c.TMDBAPIKey = tmdbKey
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		c.AdminPassword = password
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		c.SessionSecret = secret
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.DatabasePath = dbPath
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
}

// loadFromFile loads configuration from a JSON file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Validate checks if the configuration is valid.
// Sets default values for missing optional fields.
func (c *Config) Validate() error {
	// TMDB_API_KEY is optional; the catalog endpoints report their own
	// error when it is missing.

	if c.AdminPassword != "" && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required when ADMIN_PASSWORD is set")
	}

	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Duration(constants.DefaultCacheTTL) * time.Hour
	}
	if c.Port == "" {
		c.Port = constants.DefaultPort
	}

	return nil
}

// AuthEnabled reports whether operator endpoints require a session cookie.
func (c *Config) AuthEnabled() bool {
	return c.AdminPassword != ""
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
