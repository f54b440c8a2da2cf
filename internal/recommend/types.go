// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import (
	"context"
	"time"
)

// Episode is a single podcast episode as stored in the catalog.
type Episode struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	DurationSec int       `json:"duration_sec,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`
	SpotifyID   string    `json:"spotify_id,omitempty"`
}

// Podcast is a show with its ordered episode list.
type Podcast struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	SpotifyShowID string    `json:"spotify_show_id,omitempty"`

	// Source names the importer that created the show, "sample" or
	// "spotify".
	Source   string    `json:"source,omitempty"`
	Episodes []Episode `json:"episodes,omitempty"`
}

// CatalogEntry pairs an episode with the podcast it belongs to.
// Catalog providers return entries in a stable, deterministic order so
// that equal-score recommendations keep catalog order.
type CatalogEntry struct {
	PodcastID    string  `json:"podcast_id"`
	PodcastTitle string  `json:"podcast_title"`
	Episode      Episode `json:"episode"`
}

// PlayEvent records one playback of an episode by a user.
type PlayEvent struct {
	EpisodeID string    `json:"episode_id"`
	PlayedAt  time.Time `json:"played_at"`
}

// RatingSummary aggregates community ratings for an episode.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// RecommendationItem is a scored catalog entry returned to callers.
type RecommendationItem struct {
	Episode
	PodcastID    string  `json:"podcast_id"`
	PodcastTitle string  `json:"podcast_title"`
	Score        float64 `json:"score"`
}

// Playlist is a synthesized collection of recommended episodes grouped
// around a dominant profile tag.
type Playlist struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	Episodes    []RecommendationItem `json:"episodes"`
}

// CatalogProvider supplies the full episode catalog in stable order.
type CatalogProvider interface {
	AllEpisodes(ctx context.Context) ([]CatalogEntry, error)
}

// HistoryProvider supplies a user's play history, oldest first.
type HistoryProvider interface {
	UserHistory(ctx context.Context, userID string) ([]PlayEvent, error)
}

// RatingProvider supplies aggregate ratings per episode.
// An episode with no ratings returns a zero RatingSummary, not an error.
type RatingProvider interface {
	EpisodeRatings(ctx context.Context, episodeID string) (RatingSummary, error)
}

// EmbeddingProvider supplies semantic vectors for users and episodes.
// A missing vector is reported as (nil, nil); the engine treats it as an
// absent signal.
type EmbeddingProvider interface {
	UserEmbedding(ctx context.Context, userID string) ([]float64, error)
	EpisodeEmbedding(ctx context.Context, episodeID string) ([]float64, error)
}

// Providers bundles the data sources the engine reads from.
// Embeddings is optional; the other three are required.
type Providers struct {
	Catalog    CatalogProvider
	History    HistoryProvider
	Ratings    RatingProvider
	Embeddings EmbeddingProvider
}
