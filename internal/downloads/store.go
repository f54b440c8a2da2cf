// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package downloads tracks which episodes a user has saved for
// offline listening. Adds are idempotent.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const downloadPrefix = "download:"

// ErrNotFound is returned when removing a download that does not exist.
var ErrNotFound = errors.New("downloads: not found")

// Download marks one saved episode.
type Download struct {
	EpisodeID string    `json:"episode_id"`
	SavedAt   time.Time `json:"saved_at"`
}

// Store persists the per-user download registry in Badger.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// NewStore wraps an open Badger handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Add registers an episode as downloaded. Re-adding keeps the original
// save time.
func (s *Store) Add(ctx context.Context, userID, episodeID string) error {
	if userID == "" || episodeID == "" {
		return errors.New("downloads: user and episode ids required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(downloadPrefix + userID + ":" + episodeID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		data, err := json.Marshal(Download{EpisodeID: episodeID, SavedAt: s.now()})
		if err != nil {
			return fmt.Errorf("encode download: %w", err)
		}
		return txn.Set(key, data)
	})
}

// Remove drops an episode from the user's downloads.
func (s *Store) Remove(ctx context.Context, userID, episodeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(downloadPrefix + userID + ":" + episodeID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// List returns the user's downloads in key order.
func (s *Store) List(ctx context.Context, userID string) ([]Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Download
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(downloadPrefix + userID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var d Download
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			}); err != nil {
				return fmt.Errorf("decode download: %w", err)
			}
			out = append(out, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read downloads for %s: %w", userID, err)
	}
	return out, nil
}
