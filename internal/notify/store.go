// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package notify turns catalog import events into new-episode
// notifications and builds per-user listening digests.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const notificationPrefix = "notify:item:"

// Notification announces a newly available episode.
type Notification struct {
	ID           string    `json:"id"`
	PodcastID    string    `json:"podcast_id"`
	PodcastTitle string    `json:"podcast_title"`
	EpisodeID    string    `json:"episode_id"`
	EpisodeTitle string    `json:"episode_title"`
	Tags         []string  `json:"tags,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists notifications in Badger, keyed so that reverse
// iteration yields newest first.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// NewStore wraps an open Badger handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Add stores a notification. A zero CreatedAt is stamped with now; a
// missing ID is generated.
func (s *Store) Add(ctx context.Context, n Notification) error {
	if n.EpisodeID == "" {
		return errors.New("notify: episode id required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	key := notificationPrefix + n.CreatedAt.UTC().Format(time.RFC3339Nano) + ":" + n.ID
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Recent returns the latest notifications, newest first, up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	var out []Notification
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(notificationPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()
		// Reverse iteration starts past the end of the prefix range.
		seek := append([]byte(notificationPrefix), 0xFF)
		for it.Seek(seek); it.Valid() && len(out) < limit; it.Next() {
			var n Notification
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &n)
			}); err != nil {
				return fmt.Errorf("decode notification: %w", err)
			}
			out = append(out, n)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read notifications: %w", err)
	}
	return out, nil
}
