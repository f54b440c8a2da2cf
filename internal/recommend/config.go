// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import (
	"fmt"
	"time"
)

// Config holds the tunable weights and limits of the recommendation
// engine. Zero values are invalid; use DefaultConfig as a base.
type Config struct {
	// ProfileTerms is the number of highest-weight profile terms kept
	// for content matching.
	ProfileTerms int `koanf:"profile_terms"`

	// DefaultLimit is the recommendation count used when a caller passes
	// a non-positive limit.
	DefaultLimit int `koanf:"default_limit"`

	// DefaultTopTags is the tag count used when a caller passes a
	// non-positive max to TopUserTags.
	DefaultTopTags int `koanf:"default_top_tags"`

	// DefaultMaxPlaylists caps synthesized playlists per call.
	DefaultMaxPlaylists int `koanf:"default_max_playlists"`

	// DefaultPlaylistSize caps episodes per synthesized playlist.
	DefaultPlaylistSize int `koanf:"default_playlist_size"`

	// RatingWeight scales the normalized average rating (avg/5).
	RatingWeight float64 `koanf:"rating_weight"`

	// EmbeddingWeight scales the user/episode cosine similarity.
	EmbeddingWeight float64 `koanf:"embedding_weight"`

	// FreshAge is the publication age below which FreshBoost applies.
	FreshAge time.Duration `koanf:"fresh_age"`

	// RecentAge is the publication age below which RecentBoost applies
	// when the episode is older than FreshAge.
	RecentAge time.Duration `koanf:"recent_age"`

	// FreshBoost is added to episodes younger than FreshAge.
	FreshBoost float64 `koanf:"fresh_boost"`

	// RecentBoost is added to episodes younger than RecentAge.
	RecentBoost float64 `koanf:"recent_boost"`

	// InterestBonusPerMatch is added per declared-interest tag match
	// during reranking.
	InterestBonusPerMatch float64 `koanf:"interest_bonus_per_match"`

	// InterestBonusCap bounds the total interest bonus per episode.
	InterestBonusCap float64 `koanf:"interest_bonus_cap"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		ProfileTerms:          30,
		DefaultLimit:          20,
		DefaultTopTags:        5,
		DefaultMaxPlaylists:   3,
		DefaultPlaylistSize:   8,
		RatingWeight:          0.2,
		EmbeddingWeight:       0.8,
		FreshAge:              30 * 24 * time.Hour,
		RecentAge:             90 * 24 * time.Hour,
		FreshBoost:            0.2,
		RecentBoost:           0.1,
		InterestBonusPerMatch: 0.1,
		InterestBonusCap:      0.3,
	}
}

// Validate checks the configuration for values that would break scoring.
func (c *Config) Validate() error {
	if c.ProfileTerms <= 0 {
		return fmt.Errorf("profile_terms must be positive, got %d", c.ProfileTerms)
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.DefaultTopTags <= 0 {
		return fmt.Errorf("default_top_tags must be positive, got %d", c.DefaultTopTags)
	}
	if c.DefaultMaxPlaylists <= 0 {
		return fmt.Errorf("default_max_playlists must be positive, got %d", c.DefaultMaxPlaylists)
	}
	if c.DefaultPlaylistSize <= 0 {
		return fmt.Errorf("default_playlist_size must be positive, got %d", c.DefaultPlaylistSize)
	}
	if c.RatingWeight < 0 {
		return fmt.Errorf("rating_weight must be non-negative, got %f", c.RatingWeight)
	}
	if c.EmbeddingWeight < 0 {
		return fmt.Errorf("embedding_weight must be non-negative, got %f", c.EmbeddingWeight)
	}
	if c.FreshAge <= 0 || c.RecentAge <= 0 {
		return fmt.Errorf("fresh_age and recent_age must be positive")
	}
	if c.RecentAge < c.FreshAge {
		return fmt.Errorf("recent_age %s must not be shorter than fresh_age %s", c.RecentAge, c.FreshAge)
	}
	if c.FreshBoost < 0 || c.RecentBoost < 0 {
		return fmt.Errorf("recency boosts must be non-negative")
	}
	if c.InterestBonusPerMatch < 0 || c.InterestBonusCap < 0 {
		return fmt.Errorf("interest bonus values must be non-negative")
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
