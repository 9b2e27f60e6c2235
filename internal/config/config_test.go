package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, BackendMemory)
	}
	if !cfg.Store.Seed {
		t.Error("Store.Seed = false, want true by default")
	}
	if cfg.Broadcast.Interval != 30*time.Second {
		t.Errorf("Broadcast.Interval = %v, want 30s", cfg.Broadcast.Interval)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Format != "json" {
		t.Errorf("Logger = %+v, want info/json", cfg.Logger)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("STORE_DSN", "override.db")
	t.Setenv("BROADCAST_INTERVAL", "5s")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendSQLite || cfg.Store.DSN != "override.db" {
		t.Errorf("Store = %+v, want sqlite/override.db", cfg.Store)
	}
	if cfg.Broadcast.Interval != 5*time.Second {
		t.Errorf("Broadcast.Interval = %v, want 5s", cfg.Broadcast.Interval)
	}
	if cfg.Logger.Format != "text" {
		t.Errorf("Logger.Format = %q, want text", cfg.Logger.Format)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("BROADCAST_INTERVAL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080 for unparsable value", cfg.Server.Port)
	}
	if cfg.Broadcast.Interval != 30*time.Second {
		t.Errorf("Broadcast.Interval = %v, want default 30s for unparsable value", cfg.Broadcast.Interval)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:         8080,
				ReadTimeout:  time.Second,
				WriteTimeout: time.Second,
			},
			Store:     StoreConfig{Backend: BackendMemory},
			Logger:    LoggerConfig{Level: "info", Format: "json"},
			Security:  SecurityConfig{RateLimitRPS: 100, RateLimitBurst: 10},
			Broadcast: BroadcastConfig{Interval: 30 * time.Second},
		}
	}

	if err := base().validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"sqlite without dsn", func(c *Config) { c.Store.Backend = BackendSQLite; c.Store.DSN = "" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitRPS = 0 }},
		{"zero broadcast interval", func(c *Config) { c.Broadcast.Interval = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "0.0.0.0", Port: 9090}}
	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %q, want 0.0.0.0:9090", got)
	}
}
