// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package config loads Auricle configuration with layered precedence:
// built-in defaults, then an optional YAML file, then environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/auricle/internal/recommend"
)

// ConfigPathEnvVar names the environment variable that points at an
// explicit config file.
const ConfigPathEnvVar = "AURICLE_CONFIG"

// DefaultConfigPaths are searched in order when AURICLE_CONFIG is unset.
var DefaultConfigPaths = []string{
	"auricle.yaml",
	"config/auricle.yaml",
	"/etc/auricle/auricle.yaml",
}

// Config is the root configuration for the Auricle server.
type Config struct {
	Server     ServerConfig      `koanf:"server"`
	Logging    LoggingConfig     `koanf:"logging"`
	Database   DatabaseConfig    `koanf:"database"`
	Auth       AuthConfig        `koanf:"auth"`
	Security   SecurityConfig    `koanf:"security"`
	Recommend  *recommend.Config `koanf:"recommend"`
	Spotify    SpotifyConfig     `koanf:"spotify"`
	Embeddings EmbeddingsConfig  `koanf:"embeddings"`
	Ingest     IngestConfig      `koanf:"ingest"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig mirrors logging.Config for koanf unmarshaling.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig controls the embedded Badger store.
type DatabaseConfig struct {
	// Path is the Badger data directory. Empty means in-memory, which
	// is only suitable for tests and demos.
	Path string `koanf:"path"`
}

// AuthConfig controls user authentication.
type AuthConfig struct {
	// JWTSecret signs access tokens. Required outside demo mode.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BcryptCost is the password hashing cost factor.
	BcryptCost int `koanf:"bcrypt_cost"`
}

// SecurityConfig controls CORS and rate limiting.
type SecurityConfig struct {
	AllowedOrigins []string      `koanf:"allowed_origins"`
	RateLimit      int           `koanf:"rate_limit"`
	RateWindow     time.Duration `koanf:"rate_window"`
}

// SpotifyConfig holds catalog import credentials. Both fields empty
// disables the live importer; the bundled sample catalog is used
// instead.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	BaseURL      string `koanf:"base_url"`
	TokenURL     string `koanf:"token_url"`
}

// Enabled reports whether live Spotify import is configured.
func (s SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// EmbeddingsConfig holds the semantic vector builder settings.
type EmbeddingsConfig struct {
	// APIKey authorizes the embeddings endpoint. Empty disables the
	// builder; recommendations then run without the semantic signal.
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
}

// Enabled reports whether the embedding builder may call out.
func (e EmbeddingsConfig) Enabled() bool {
	return e.APIKey != ""
}

// IngestConfig controls the periodic catalog import job.
type IngestConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`

	// SeedUser is the account whose top tags drive scheduled imports.
	SeedUser string `koanf:"seed_user"`
}

// defaultConfig returns the built-in defaults, the lowest layer.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path: "data/auricle",
		},
		Auth: AuthConfig{
			TokenTTL:   7 * 24 * time.Hour,
			BcryptCost: 12,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			RateLimit:      100,
			RateWindow:     time.Minute,
		},
		Recommend: recommend.DefaultConfig(),
		Spotify: SpotifyConfig{
			BaseURL:  "https://api.spotify.com/v1",
			TokenURL: "https://accounts.spotify.com/api/token",
		},
		Embeddings: EmbeddingsConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-3-small",
		},
		Ingest: IngestConfig{
			Enabled:  false,
			Interval: 6 * time.Hour,
		},
	}
}

// Validate checks cross-field constraints after loading.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token_ttl must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth bcrypt_cost %d out of bcrypt range", c.Auth.BcryptCost)
	}
	if c.Security.RateLimit <= 0 {
		return fmt.Errorf("security rate_limit must be positive")
	}
	if c.Security.RateWindow <= 0 {
		return fmt.Errorf("security rate_window must be positive")
	}
	if c.Ingest.Enabled && c.Ingest.Interval <= 0 {
		return fmt.Errorf("ingest interval must be positive when ingest is enabled")
	}
	if c.Recommend == nil {
		c.Recommend = recommend.DefaultConfig()
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
