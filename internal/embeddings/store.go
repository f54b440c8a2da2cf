// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package embeddings stores semantic vectors for users and episodes
// and refreshes them from an OpenAI-compatible embeddings endpoint.
// The store implements recommend.EmbeddingProvider; a missing vector
// is (nil, nil), never an error.
package embeddings

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	episodePrefix = "embedding:episode:"
	userPrefix    = "embedding:user:"
)

// Store persists embedding vectors in Badger.
type Store struct {
	db *badger.DB
}

// NewStore wraps an open Badger handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// SetEpisodeEmbedding stores the vector for an episode.
func (s *Store) SetEpisodeEmbedding(ctx context.Context, episodeID string, vec []float64) error {
	return s.put(ctx, episodePrefix+episodeID, vec)
}

// SetUserEmbedding stores the vector for a user.
func (s *Store) SetUserEmbedding(ctx context.Context, userID string, vec []float64) error {
	return s.put(ctx, userPrefix+userID, vec)
}

// EpisodeEmbedding returns the episode's vector, nil when absent.
// Implements recommend.EmbeddingProvider.
func (s *Store) EpisodeEmbedding(ctx context.Context, episodeID string) ([]float64, error) {
	return s.get(ctx, episodePrefix+episodeID)
}

// UserEmbedding returns the user's vector, nil when absent.
// Implements recommend.EmbeddingProvider.
func (s *Store) UserEmbedding(ctx context.Context, userID string) ([]float64, error) {
	return s.get(ctx, userPrefix+userID)
}

// HasEpisodeEmbedding reports whether a vector is stored for the episode.
func (s *Store) HasEpisodeEmbedding(ctx context.Context, episodeID string) (bool, error) {
	vec, err := s.get(ctx, episodePrefix+episodeID)
	return len(vec) > 0, err
}

func (s *Store) put(ctx context.Context, key string, vec []float64) error {
	if len(vec) == 0 {
		return errors.New("embeddings: empty vector")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode embedding: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) get(ctx context.Context, key string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var vec []float64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &vec)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read embedding %s: %w", key, err)
	}
	return vec, nil
}
