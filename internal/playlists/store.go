// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package playlists manages user-curated playlists. These are distinct
// from the synthesized playlists the recommendation engine produces:
// here the user decides the contents.
package playlists

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const playlistPrefix = "playlist:"

var (
	// ErrNotFound is returned when a playlist does not exist.
	ErrNotFound = errors.New("playlists: not found")

	// ErrEpisodeNotInPlaylist is returned when removing an absent episode.
	ErrEpisodeNotInPlaylist = errors.New("playlists: episode not in playlist")
)

// Playlist is a user-curated episode collection.
type Playlist struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	EpisodeIDs []string  `json:"episode_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store persists playlists in Badger.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// NewStore wraps an open Badger handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func key(userID, playlistID string) []byte {
	return []byte(playlistPrefix + userID + ":" + playlistID)
}

// Create makes a new empty playlist for the user.
func (s *Store) Create(ctx context.Context, userID, name string) (Playlist, error) {
	if userID == "" {
		return Playlist{}, errors.New("playlists: user id required")
	}
	if name == "" {
		return Playlist{}, errors.New("playlists: name required")
	}
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	now := s.now()
	pl := Playlist{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.put(pl); err != nil {
		return Playlist{}, err
	}
	return pl, nil
}

// Get returns one playlist owned by the user.
func (s *Store) Get(ctx context.Context, userID, playlistID string) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	var pl Playlist
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(userID, playlistID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &pl)
		})
	})
	if err != nil {
		return Playlist{}, err
	}
	return pl, nil
}

// List returns the user's playlists, oldest created first.
func (s *Store) List(ctx context.Context, userID string) ([]Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []Playlist
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(playlistPrefix + userID + ":")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var pl Playlist
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &pl)
			}); err != nil {
				return fmt.Errorf("decode playlist: %w", err)
			}
			out = append(out, pl)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read playlists for %s: %w", userID, err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AddEpisode appends an episode to the playlist. Adding an episode
// that is already present is a no-op.
func (s *Store) AddEpisode(ctx context.Context, userID, playlistID, episodeID string) (Playlist, error) {
	if episodeID == "" {
		return Playlist{}, errors.New("playlists: episode id required")
	}
	return s.update(ctx, userID, playlistID, func(pl *Playlist) error {
		for _, id := range pl.EpisodeIDs {
			if id == episodeID {
				return nil
			}
		}
		pl.EpisodeIDs = append(pl.EpisodeIDs, episodeID)
		return nil
	})
}

// RemoveEpisode drops an episode from the playlist.
func (s *Store) RemoveEpisode(ctx context.Context, userID, playlistID, episodeID string) (Playlist, error) {
	return s.update(ctx, userID, playlistID, func(pl *Playlist) error {
		for i, id := range pl.EpisodeIDs {
			if id == episodeID {
				pl.EpisodeIDs = append(pl.EpisodeIDs[:i], pl.EpisodeIDs[i+1:]...)
				return nil
			}
		}
		return ErrEpisodeNotInPlaylist
	})
}

// Rename changes the playlist's display name.
func (s *Store) Rename(ctx context.Context, userID, playlistID, name string) (Playlist, error) {
	if name == "" {
		return Playlist{}, errors.New("playlists: name required")
	}
	return s.update(ctx, userID, playlistID, func(pl *Playlist) error {
		pl.Name = name
		return nil
	})
}

// Delete removes a playlist entirely.
func (s *Store) Delete(ctx context.Context, userID, playlistID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		k := key(userID, playlistID)
		if _, err := txn.Get(k); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(k)
	})
}

func (s *Store) update(ctx context.Context, userID, playlistID string, mutate func(*Playlist) error) (Playlist, error) {
	if err := ctx.Err(); err != nil {
		return Playlist{}, err
	}
	var pl Playlist
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key(userID, playlistID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &pl)
		}); err != nil {
			return err
		}
		if err := mutate(&pl); err != nil {
			return err
		}
		pl.UpdatedAt = s.now()
		data, err := json.Marshal(pl)
		if err != nil {
			return fmt.Errorf("encode playlist: %w", err)
		}
		return txn.Set(key(userID, playlistID), data)
	})
	if err != nil {
		return Playlist{}, err
	}
	return pl, nil
}

func (s *Store) put(pl Playlist) error {
	data, err := json.Marshal(pl)
	if err != nil {
		return fmt.Errorf("encode playlist: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(pl.UserID, pl.ID), data)
	})
}
