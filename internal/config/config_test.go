// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("default port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Errorf("default token ttl = %s, want 168h", cfg.Auth.TokenTTL)
	}
	if cfg.Recommend.ProfileTerms != 30 {
		t.Errorf("default profile terms = %d, want 30", cfg.Recommend.ProfileTerms)
	}
	if cfg.Spotify.Enabled() {
		t.Error("spotify import enabled without credentials")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AURICLE_SERVER_PORT", "9090")
	t.Setenv("AURICLE_LOGGING_LEVEL", "debug")
	t.Setenv("AURICLE_AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want env override 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("jwt secret = %q, want test-secret", cfg.Auth.JWTSecret)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auricle.yaml")
	data := []byte("server:\n  port: 5001\nlogging:\n  level: warn\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 5001 {
		t.Errorf("port = %d, want file value 5001", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auricle.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 5001\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("AURICLE_SERVER_PORT", "6001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 6001 {
		t.Errorf("port = %d, env must beat file", cfg.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "zero token ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 1 }},
		{name: "zero rate limit", mutate: func(c *Config) { c.Security.RateLimit = 0 }},
		{name: "ingest enabled without interval", mutate: func(c *Config) {
			c.Ingest.Enabled = true
			c.Ingest.Interval = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "AURICLE_SERVER_PORT", want: "server.port"},
		{in: "AURICLE_AUTH_JWT_SECRET", want: "auth.jwt_secret"},
		{in: "AURICLE_RECOMMEND_DEFAULT_LIMIT", want: "recommend.default_limit"},
		{in: "AURICLE_SECURITY_RATE_LIMIT", want: "security.rate_limit"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
