package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:               "8080",
		GatewayURL:         "http://localhost:3000/api",
		GatewayTimeout:     10 * time.Second,
		CacheTTL:           time.Minute,
		CacheSize:          128,
		RateLimitPerMinute: 60,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty gateway URL",
			mutate:      func(c *Config) { c.GatewayURL = "" },
			wantErr:     true,
			errorString: "gateway URL cannot be empty",
		},
		{
			name:        "bad gateway scheme",
			mutate:      func(c *Config) { c.GatewayURL = "ftp://localhost/api" },
			wantErr:     true,
			errorString: "must be 'http' or 'https'",
		},
		{
			name:        "gateway URL without host",
			mutate:      func(c *Config) { c.GatewayURL = "http://" },
			wantErr:     true,
			errorString: "missing host",
		},
		{
			name:        "timeout too small",
			mutate:      func(c *Config) { c.GatewayTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "timeout too large",
			mutate:      func(c *Config) { c.GatewayTimeout = 5 * time.Minute },
			wantErr:     true,
			errorString: "must be at most 2 minutes",
		},
		{
			name:        "cache TTL too small",
			mutate:      func(c *Config) { c.CacheTTL = 0 },
			wantErr:     true,
			errorString: "invalid cache TTL",
		},
		{
			name:        "cache size too small",
			mutate:      func(c *Config) { c.CacheSize = 0 },
			wantErr:     true,
			errorString: "invalid cache size 0",
		},
		{
			name:        "rate limit too small",
			mutate:      func(c *Config) { c.RateLimitPerMinute = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Port: "abc", GatewayURL: "", CacheSize: 0}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid port", "gateway URL cannot be empty", "invalid cache size"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected combined error to contain %q, got %q", want, err.Error())
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port: got %s", cfg.Port)
	}
	if cfg.GatewayURL != "http://localhost:3000/api" {
		t.Fatalf("default gateway URL: got %s", cfg.GatewayURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
