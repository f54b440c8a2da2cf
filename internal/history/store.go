// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package history records playback events and positions per user.
// Events are append-only and read back oldest first, which keeps
// profile term order stable. Implements recommend.HistoryProvider.
package history

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/auricle/internal/recommend"
)

const (
	playPrefix     = "history:play:"
	playSeqPrefix  = "history:seq:"
	positionPrefix = "history:pos:"
)

// Store persists play history and playback positions in Badger.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// NewStore wraps an open Badger handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// RecordPlay appends a playback event for the user. A zero playedAt is
// stamped with the current time.
func (s *Store) RecordPlay(ctx context.Context, userID, episodeID string, playedAt time.Time) error {
	if userID == "" || episodeID == "" {
		return errors.New("history: user and episode ids required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if playedAt.IsZero() {
		playedAt = s.now()
	}
	event := recommend.PlayEvent{EpisodeID: episodeID, PlayedAt: playedAt}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode play event: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		seq, err := nextSeq(txn, userID)
		if err != nil {
			return err
		}
		key := fmt.Sprintf("%s%s:%012d", playPrefix, userID, seq)
		return txn.Set([]byte(key), data)
	})
}

// UserHistory returns the user's play events, oldest first. Implements
// recommend.HistoryProvider.
func (s *Store) UserHistory(ctx context.Context, userID string) ([]recommend.PlayEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var events []recommend.PlayEvent
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(playPrefix + userID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var event recommend.PlayEvent
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &event)
			}); err != nil {
				return fmt.Errorf("decode play event: %w", err)
			}
			events = append(events, event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read history for user %s: %w", userID, err)
	}
	return events, nil
}

// RecentEpisodeIDs returns the IDs of the user's most recent plays,
// newest first, deduplicated, up to max.
func (s *Store) RecentEpisodeIDs(ctx context.Context, userID string, max int) ([]string, error) {
	events, err := s.UserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if max <= 0 {
		max = 10
	}
	seen := make(map[string]struct{})
	var ids []string
	for i := len(events) - 1; i >= 0 && len(ids) < max; i-- {
		id := events[i].EpisodeID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// SetPosition stores the playback position in seconds for an episode.
func (s *Store) SetPosition(ctx context.Context, userID, episodeID string, seconds float64) error {
	if userID == "" || episodeID == "" {
		return errors.New("history: user and episode ids required")
	}
	if seconds < 0 {
		seconds = 0
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(seconds)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(positionPrefix+userID+":"+episodeID), data)
	})
}

// Position returns the stored playback position, zero when absent.
func (s *Store) Position(ctx context.Context, userID, episodeID string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var seconds float64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(positionPrefix + userID + ":" + episodeID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &seconds)
		})
	})
	if err != nil {
		return 0, fmt.Errorf("read position: %w", err)
	}
	return seconds, nil
}

// Positions returns all stored positions for a user keyed by episode ID.
func (s *Store) Positions(ctx context.Context, userID string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	positions := make(map[string]float64)
	prefix := positionPrefix + userID + ":"
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			episodeID := string(it.Item().Key()[len(prefix):])
			var seconds float64
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &seconds)
			}); err != nil {
				return err
			}
			positions[episodeID] = seconds
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	return positions, nil
}

func nextSeq(txn *badger.Txn, userID string) (uint64, error) {
	key := []byte(playSeqPrefix + userID)
	var seq uint64
	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, fmt.Errorf("read history sequence: %w", err)
	default:
		if err := item.Value(func(val []byte) error {
			if len(val) == 8 {
				seq = binary.BigEndian.Uint64(val)
			}
			return nil
		}); err != nil {
			return 0, err
		}
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq+1)
	if err := txn.Set(key, buf); err != nil {
		return 0, fmt.Errorf("write history sequence: %w", err)
	}
	return seq, nil
}
