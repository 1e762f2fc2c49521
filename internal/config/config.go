// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Authentication
	APIKey string // API key for /api/v1 endpoints

	// Sessions
	SessionStore     string        // memory, sqlite
	DatabasePath     string        // Path to SQLite file (sqlite store only)
	SessionTTL       time.Duration // How long a computed chart stays available
	SessionCacheSize int           // Max sessions in the memory store

	// Calculation limits
	MaxAge float64 // Upper bound for age lookups

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Session store backends
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Sessions
	cfg.SessionStore = getEnv("SESSION_STORE", StoreMemory)
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/sessions.db")
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", 30*time.Minute)
	cfg.SessionCacheSize = getEnvInt("SESSION_CACHE_SIZE", 1024)

	cfg.MaxAge = getEnvFloat("MAX_AGE", 120)

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	// API key is required in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	switch c.SessionStore {
	case StoreMemory:
		if c.SessionCacheSize < 1 {
			errs = append(errs, fmt.Errorf("SESSION_CACHE_SIZE must be positive, got %d", c.SessionCacheSize))
		}
	case StoreSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for the sqlite session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be one of: memory, sqlite; got %q", c.SessionStore))
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL))
	}

	if c.MaxAge <= 0 {
		errs = append(errs, fmt.Errorf("MAX_AGE must be positive, got %v", c.MaxAge))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat reads an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as a time.Duration ("30m", "2h").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
