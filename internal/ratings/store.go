// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package ratings stores per-user episode ratings and text reviews.
// One rating per (user, episode) pair; re-rating replaces the previous
// value. Aggregates implement recommend.RatingProvider.
package ratings

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/auricle/internal/recommend"
)

const (
	ratingPrefix = "rating:"
	reviewPrefix = "review:"
)

// ErrInvalidScore is returned for ratings outside [1, 5].
var ErrInvalidScore = errors.New("ratings: score must be between 1 and 5")

// Rating is one user's score for an episode.
type Rating struct {
	UserID    string    `json:"user_id"`
	EpisodeID string    `json:"episode_id"`
	Score     int       `json:"score"`
	RatedAt   time.Time `json:"rated_at"`
}

// Review is a free-text episode review.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EpisodeID string    `json:"episode_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists ratings and reviews in Badger.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// NewStore wraps an open Badger handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Rate upserts the user's score for an episode.
func (s *Store) Rate(ctx context.Context, userID, episodeID string, score int) error {
	if userID == "" || episodeID == "" {
		return errors.New("ratings: user and episode ids required")
	}
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rating := Rating{UserID: userID, EpisodeID: episodeID, Score: score, RatedAt: s.now()}
	data, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("encode rating: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(ratingPrefix+episodeID+":"+userID), data)
	})
}

// UserRating returns the user's score for an episode, 0 when unrated.
func (s *Store) UserRating(ctx context.Context, userID, episodeID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var score int
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(ratingPrefix + episodeID + ":" + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var rating Rating
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rating)
		}); err != nil {
			return err
		}
		score = rating.Score
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("read rating: %w", err)
	}
	return score, nil
}

// EpisodeRatings aggregates all ratings for an episode. An unrated
// episode yields a zero summary. Implements recommend.RatingProvider.
func (s *Store) EpisodeRatings(ctx context.Context, episodeID string) (recommend.RatingSummary, error) {
	if err := ctx.Err(); err != nil {
		return recommend.RatingSummary{}, err
	}
	var sum, count int
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(ratingPrefix + episodeID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rating Rating
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rating)
			}); err != nil {
				return fmt.Errorf("decode rating: %w", err)
			}
			sum += rating.Score
			count++
		}
		return nil
	})
	if err != nil {
		return recommend.RatingSummary{}, fmt.Errorf("aggregate ratings for %s: %w", episodeID, err)
	}
	if count == 0 {
		return recommend.RatingSummary{}, nil
	}
	return recommend.RatingSummary{
		Average: float64(sum) / float64(count),
		Count:   count,
	}, nil
}

// AddReview stores a text review for an episode.
func (s *Store) AddReview(ctx context.Context, userID, episodeID, text string) (Review, error) {
	if userID == "" || episodeID == "" {
		return Review{}, errors.New("ratings: user and episode ids required")
	}
	if text == "" {
		return Review{}, errors.New("ratings: review text required")
	}
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}
	review := Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		EpisodeID: episodeID,
		Text:      text,
		CreatedAt: s.now(),
	}
	data, err := json.Marshal(review)
	if err != nil {
		return Review{}, fmt.Errorf("encode review: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		key := reviewPrefix + episodeID + ":" + review.CreatedAt.UTC().Format(time.RFC3339Nano) + ":" + review.ID
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return Review{}, err
	}
	return review, nil
}

// Reviews returns an episode's reviews, oldest first.
func (s *Store) Reviews(ctx context.Context, episodeID string) ([]Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var reviews []Review
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reviewPrefix + episodeID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var review Review
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &review)
			}); err != nil {
				return fmt.Errorf("decode review: %w", err)
			}
			reviews = append(reviews, review)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read reviews for %s: %w", episodeID, err)
	}
	return reviews, nil
}
