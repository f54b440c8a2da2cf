// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package ratings

import (
	"context"
	"errors"
	"math"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRateValidation(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	for _, score := range []int{0, 6, -1} {
		if err := s.Rate(ctx, "u1", "e1", score); !errors.Is(err, ErrInvalidScore) {
			t.Errorf("Rate(%d) error = %v, want ErrInvalidScore", score, err)
		}
	}
	for _, score := range []int{1, 5} {
		if err := s.Rate(ctx, "u1", "e1", score); err != nil {
			t.Errorf("Rate(%d) error = %v", score, err)
		}
	}
}

func TestEpisodeRatingsAggregation(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	if err := s.Rate(ctx, "u1", "e1", 4); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if err := s.Rate(ctx, "u2", "e1", 5); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}

	summary, err := s.EpisodeRatings(ctx, "e1")
	if err != nil {
		t.Fatalf("EpisodeRatings() error = %v", err)
	}
	if summary.Count != 2 {
		t.Errorf("count = %d, want 2", summary.Count)
	}
	if math.Abs(summary.Average-4.5) > 1e-9 {
		t.Errorf("average = %f, want 4.5", summary.Average)
	}
}

func TestRateUpsertsPerUser(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	if err := s.Rate(ctx, "u1", "e1", 2); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if err := s.Rate(ctx, "u1", "e1", 5); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}

	summary, err := s.EpisodeRatings(ctx, "e1")
	if err != nil {
		t.Fatalf("EpisodeRatings() error = %v", err)
	}
	if summary.Count != 1 {
		t.Errorf("re-rating created extra entries: count = %d", summary.Count)
	}
	if summary.Average != 5 {
		t.Errorf("average = %f, want replaced value 5", summary.Average)
	}

	score, err := s.UserRating(ctx, "u1", "e1")
	if err != nil {
		t.Fatalf("UserRating() error = %v", err)
	}
	if score != 5 {
		t.Errorf("UserRating() = %d, want 5", score)
	}
}

func TestEpisodeRatingsEmpty(t *testing.T) {
	s := NewStore(newTestDB(t))
	summary, err := s.EpisodeRatings(context.Background(), "unrated")
	if err != nil {
		t.Fatalf("EpisodeRatings() error = %v", err)
	}
	if summary.Count != 0 || summary.Average != 0 {
		t.Errorf("unrated summary = %+v, want zero", summary)
	}
}

func TestReviews(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	first, err := s.AddReview(ctx, "u1", "e1", "great episode")
	if err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}
	if first.ID == "" {
		t.Error("review id not assigned")
	}
	if _, err := s.AddReview(ctx, "u2", "e1", "solid"); err != nil {
		t.Fatalf("AddReview() error = %v", err)
	}

	reviews, err := s.Reviews(ctx, "e1")
	if err != nil {
		t.Fatalf("Reviews() error = %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("review count = %d, want 2", len(reviews))
	}
	if reviews[0].Text != "great episode" {
		t.Errorf("oldest review first, got %q", reviews[0].Text)
	}

	if _, err := s.AddReview(ctx, "u1", "e1", ""); err == nil {
		t.Error("empty review text accepted")
	}
}
