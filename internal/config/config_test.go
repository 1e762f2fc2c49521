package config

import (
	"testing"
	"time"
)

// configVars lists every variable Load reads.
var configVars = []string{
	"PORT", "ENV", "API_KEY",
	"SESSION_STORE", "DATABASE_PATH", "SESSION_TTL", "SESSION_CACHE_SIZE",
	"MAX_AGE", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks all config-related environment variables for the test.
// Empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range configVars {
		t.Setenv(v, "")
	}
}

func validConfig() Config {
	return Config{
		Port:             8080,
		Env:              EnvDevelopment,
		SessionStore:     StoreMemory,
		DatabasePath:     "./data/test.db",
		SessionTTL:       time.Minute,
		SessionCacheSize: 16,
		MaxAge:           120,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.SessionStore != StoreMemory {
		t.Errorf("SessionStore = %q, want %q", cfg.SessionStore, StoreMemory)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s, want 30m", cfg.SessionTTL)
	}
	if cfg.SessionCacheSize != 1024 {
		t.Errorf("SessionCacheSize = %d, want 1024", cfg.SessionCacheSize)
	}
	if cfg.MaxAge != 120 {
		t.Errorf("MaxAge = %v, want 120", cfg.MaxAge)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("API_KEY", "secret-key-123")
	t.Setenv("SESSION_STORE", "sqlite")
	t.Setenv("DATABASE_PATH", "/data/test.db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MAX_AGE", "96.75")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.SessionStore != StoreSQLite {
		t.Errorf("SessionStore = %q, want %q", cfg.SessionStore, StoreSQLite)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %s, want 2h", cfg.SessionTTL)
	}
	if cfg.MaxAge != 96.75 {
		t.Errorf("MaxAge = %v, want 96.75", cfg.MaxAge)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
}

func TestLoad_UnparsableFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s, want 30m", cfg.SessionTTL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_STORE", "redis")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for unknown session store")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid development config", mutate: func(c *Config) {}},
		{
			name: "valid production config",
			mutate: func(c *Config) {
				c.Env = EnvProduction
				c.APIKey = "required-in-prod"
			},
		},
		{name: "valid sqlite store", mutate: func(c *Config) { c.SessionStore = StoreSQLite }},
		{name: "production requires API key", mutate: func(c *Config) { c.Env = EnvProduction }, wantErr: true},
		{name: "invalid port - too low", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "invalid port - too high", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "invalid environment", mutate: func(c *Config) { c.Env = "invalid" }, wantErr: true},
		{name: "unknown session store", mutate: func(c *Config) { c.SessionStore = "redis" }, wantErr: true},
		{
			name: "sqlite store needs database path",
			mutate: func(c *Config) {
				c.SessionStore = StoreSQLite
				c.DatabasePath = ""
			},
			wantErr: true,
		},
		{name: "memory store needs cache size", mutate: func(c *Config) { c.SessionCacheSize = 0 }, wantErr: true},
		{name: "non-positive TTL", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: true},
		{name: "non-positive max age", mutate: func(c *Config) { c.MaxAge = 0 }, wantErr: true},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: true},
		{name: "invalid log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}
