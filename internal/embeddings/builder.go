// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package embeddings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/auricle/internal/recommend"
)

// BuilderConfig configures the embedding builder.
type BuilderConfig struct {
	// APIKey authorizes requests. Empty disables the builder entirely.
	APIKey string

	// BaseURL is the API root, e.g. https://api.openai.com/v1.
	BaseURL string

	// Model names the embedding model.
	Model string

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Builder computes embedding vectors for catalog episodes and user
// interest profiles through an OpenAI-compatible endpoint. Calls go
// through a circuit breaker so a flapping upstream cannot stall catalog
// refreshes.
type Builder struct {
	cfg     BuilderConfig
	store   *Store
	catalog recommend.CatalogProvider
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]float64]
	logger  zerolog.Logger
}

// NewBuilder creates a Builder writing vectors into store.
func NewBuilder(cfg BuilderConfig, store *Store, catalog recommend.CatalogProvider, logger zerolog.Logger) *Builder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	logger = logger.With().Str("component", "embeddings").Logger()

	breaker := gobreaker.NewCircuitBreaker[[]float64](gobreaker.Settings{
		Name:        "embeddings-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Builder{
		cfg:     cfg,
		store:   store,
		catalog: catalog,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		logger:  logger,
	}
}

// Enabled reports whether the builder has credentials to call out.
func (b *Builder) Enabled() bool {
	return b.cfg.APIKey != ""
}

// episodeText renders the text an episode vector is computed from.
func episodeText(ep recommend.Episode) string {
	parts := []string{ep.Title, ep.Description}
	if len(ep.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(ep.Tags, ", "))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// BuildEpisodeEmbeddings computes vectors for catalog episodes that do
// not have one yet. Returns the number of vectors written. Individual
// episode failures are logged and skipped; an open breaker aborts the
// run.
func (b *Builder) BuildEpisodeEmbeddings(ctx context.Context) (int, error) {
	if !b.Enabled() {
		return 0, nil
	}
	entries, err := b.catalog.AllEpisodes(ctx)
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}
	built := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return built, err
		}
		has, err := b.store.HasEpisodeEmbedding(ctx, entry.Episode.ID)
		if err != nil {
			return built, err
		}
		if has {
			continue
		}
		text := episodeText(entry.Episode)
		if text == "" {
			continue
		}
		vec, err := b.embed(ctx, text)
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return built, fmt.Errorf("embeddings api unavailable: %w", err)
			}
			b.logger.Warn().Err(err).Str("episode_id", entry.Episode.ID).Msg("embedding failed")
			continue
		}
		if err := b.store.SetEpisodeEmbedding(ctx, entry.Episode.ID, vec); err != nil {
			return built, err
		}
		built++
	}
	b.logger.Info().Int("built", built).Msg("episode embeddings refreshed")
	return built, nil
}

// BuildUserEmbedding computes and stores a user vector from their top
// interest tags. No tags means nothing to embed.
func (b *Builder) BuildUserEmbedding(ctx context.Context, userID string, tags []string) error {
	if !b.Enabled() || len(tags) == 0 {
		return nil
	}
	vec, err := b.embed(ctx, "User interests: "+strings.Join(tags, ", "))
	if err != nil {
		return fmt.Errorf("embed user %s: %w", userID, err)
	}
	return b.store.SetUserEmbedding(ctx, userID, vec)
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// embed calls the embeddings endpoint through the circuit breaker.
func (b *Builder) embed(ctx context.Context, text string) ([]float64, error) {
	return b.breaker.Execute(func() ([]float64, error) {
		body, err := json.Marshal(embeddingRequest{Model: b.cfg.Model, Input: text})
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+"/embeddings", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)

		resp, err := b.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("call embeddings api: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("embeddings api status %d: %s", resp.StatusCode, snippet)
		}
		var decoded embeddingResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
			return nil, fmt.Errorf("embeddings api returned no vector")
		}
		return decoded.Data[0].Embedding, nil
	})
}
