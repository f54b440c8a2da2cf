// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Engine scores and ranks catalog episodes for individual users.
// It is safe for concurrent use; all state lives in the providers.
type Engine struct {
	cfg        *Config
	catalog    CatalogProvider
	history    HistoryProvider
	ratings    RatingProvider
	embeddings EmbeddingProvider
	logger     zerolog.Logger
	now        func() time.Time
}

// NewEngine creates a recommendation engine. Catalog, history, and
// ratings providers are required; embeddings may be nil, in which case
// the semantic signal is simply absent.
func NewEngine(cfg *Config, providers Providers, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	if providers.Catalog == nil {
		return nil, errors.New("catalog provider is required")
	}
	if providers.History == nil {
		return nil, errors.New("history provider is required")
	}
	if providers.Ratings == nil {
		return nil, errors.New("rating provider is required")
	}
	return &Engine{
		cfg:        cfg.Clone(),
		catalog:    providers.Catalog,
		history:    providers.History,
		ratings:    providers.Ratings,
		embeddings: providers.Embeddings,
		logger:     logger.With().Str("component", "recommend").Logger(),
		now:        time.Now,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// buildProfile folds the user's play history into a term profile.
// History entries referencing unknown episodes are skipped.
func (e *Engine) buildProfile(ctx context.Context, userID string, index map[string]CatalogEntry) (*Profile, error) {
	events, err := e.history.UserHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load history for user %s: %w", userID, err)
	}
	profile := NewProfile()
	skipped := 0
	for _, ev := range events {
		entry, ok := index[ev.EpisodeID]
		if !ok {
			skipped++
			continue
		}
		profile.AddEpisode(entry.Episode)
	}
	if skipped > 0 {
		e.logger.Debug().
			Str("user_id", userID).
			Int("skipped", skipped).
			Msg("history references episodes missing from catalog")
	}
	return profile, nil
}

// loadCatalog fetches all entries plus an episode-ID index.
func (e *Engine) loadCatalog(ctx context.Context) ([]CatalogEntry, map[string]CatalogEntry, error) {
	entries, err := e.catalog.AllEpisodes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	index := make(map[string]CatalogEntry, len(entries))
	for _, entry := range entries {
		index[entry.Episode.ID] = entry
	}
	return entries, index, nil
}

// userVector fetches the user's embedding, degrading to nil on any
// provider failure.
func (e *Engine) userVector(ctx context.Context, userID string) []float64 {
	if e.embeddings == nil {
		return nil
	}
	vec, err := e.embeddings.UserEmbedding(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("user embedding unavailable")
		return nil
	}
	return vec
}

// scoreEntry computes the unrounded score of one catalog entry against
// a reduced profile term set. Rating and embedding lookups degrade to
// zero contribution on provider failure.
func (e *Engine) scoreEntry(ctx context.Context, entry CatalogEntry, topTerms map[string]struct{}, userVec []float64, now time.Time) float64 {
	score := Jaccard(topTerms, TermSet(EpisodeTerms(entry.Episode)))

	summary, err := e.ratings.EpisodeRatings(ctx, entry.Episode.ID)
	if err != nil {
		e.logger.Debug().Err(err).Str("episode_id", entry.Episode.ID).Msg("rating lookup failed")
	} else {
		score += ratingBoost(summary, e.cfg.RatingWeight)
	}

	score += recencyBoost(entry.Episode.PublishedAt, now, e.cfg)

	if len(userVec) > 0 && e.embeddings != nil {
		epVec, err := e.embeddings.EpisodeEmbedding(ctx, entry.Episode.ID)
		if err != nil {
			e.logger.Debug().Err(err).Str("episode_id", entry.Episode.ID).Msg("episode embedding lookup failed")
		} else {
			score += embeddingBoost(userVec, epVec, e.cfg.EmbeddingWeight)
		}
	}

	return sanitize(score)
}

// Recommendations ranks the whole catalog for a user and returns the
// top limit items, scores rounded to 4 decimals, ordered by score
// descending with catalog order breaking ties. A non-positive limit
// falls back to the configured default.
func (e *Engine) Recommendations(ctx context.Context, userID string, limit int) ([]RecommendationItem, error) {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	start := e.now()

	entries, index, err := e.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := e.buildProfile(ctx, userID, index)
	if err != nil {
		return nil, err
	}

	topTerms := profile.TopTermSet(e.cfg.ProfileTerms)
	userVec := e.userVector(ctx, userID)
	now := e.now()

	items := make([]RecommendationItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, RecommendationItem{
			Episode:      entry.Episode,
			PodcastID:    entry.PodcastID,
			PodcastTitle: entry.PodcastTitle,
			Score:        roundScore(e.scoreEntry(ctx, entry, topTerms, userVec, now)),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	if len(items) > limit {
		items = items[:limit]
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("catalog_size", len(entries)).
		Int("profile_terms", profile.Len()).
		Int("returned", len(items)).
		Dur("elapsed", e.now().Sub(start)).
		Msg("recommendations computed")
	return items, nil
}

// ScoreEpisode scores a single catalog episode for a user, rounded to
// 4 decimals. Unknown episode IDs score 0.
func (e *Engine) ScoreEpisode(ctx context.Context, userID, episodeID string) (float64, error) {
	_, index, err := e.loadCatalog(ctx)
	if err != nil {
		return 0, err
	}
	entry, ok := index[episodeID]
	if !ok {
		return 0, nil
	}
	profile, err := e.buildProfile(ctx, userID, index)
	if err != nil {
		return 0, err
	}
	topTerms := profile.TopTermSet(e.cfg.ProfileTerms)
	userVec := e.userVector(ctx, userID)
	return roundScore(e.scoreEntry(ctx, entry, topTerms, userVec, e.now())), nil
}

// TopUserTags returns the user's highest-weight profile terms, up to
// max. A non-positive max falls back to the configured default.
func (e *Engine) TopUserTags(ctx context.Context, userID string, max int) ([]string, error) {
	if max <= 0 {
		max = e.cfg.DefaultTopTags
	}
	_, index, err := e.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := e.buildProfile(ctx, userID, index)
	if err != nil {
		return nil, err
	}
	return profile.TopTerms(max), nil
}
