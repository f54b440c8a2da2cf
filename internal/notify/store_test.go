// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package notify

import (
	"context"
	"testing"
	"time"

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

func TestAddAndRecent(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		err := s.Add(ctx, Notification{
			EpisodeID:    "e" + title,
			EpisodeTitle: title,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Add(%s) error = %v", title, err)
		}
	}

	recent, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent() count = %d, want 2", len(recent))
	}
	if recent[0].EpisodeTitle != "third" || recent[1].EpisodeTitle != "second" {
		t.Errorf("newest-first order lost: %q, %q", recent[0].EpisodeTitle, recent[1].EpisodeTitle)
	}
}

func TestAddAssignsDefaults(t *testing.T) {
	s := NewStore(newTestDB(t))
	ctx := context.Background()

	if err := s.Add(ctx, Notification{EpisodeID: "e1"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	recent, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("Recent() count = %d, want 1", len(recent))
	}
	if recent[0].ID == "" || recent[0].CreatedAt.IsZero() {
		t.Errorf("defaults not applied: %+v", recent[0])
	}
}

func TestAddRequiresEpisodeID(t *testing.T) {
	s := NewStore(newTestDB(t))
	if err := s.Add(context.Background(), Notification{}); err == nil {
		t.Error("notification without episode id accepted")
	}
}
