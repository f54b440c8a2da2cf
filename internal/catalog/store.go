// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package catalog

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/auricle/internal/recommend"
)

const (
	podcastPrefix = "catalog:podcast:"
	seqKey        = "catalog:next_seq"
)

// ErrNotFound is returned when a podcast or episode does not exist.
var ErrNotFound = errors.New("catalog: not found")

// record wraps a podcast with its insertion sequence so reads can
// reproduce insertion order without a separate index.
type record struct {
	Seq     uint64            `json:"seq"`
	Podcast recommend.Podcast `json:"podcast"`
}

// Store persists the podcast catalog in Badger.
type Store struct {
	db *badger.DB
}

// NewStore wraps an open Badger handle.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// UpsertPodcast inserts or updates a podcast's metadata. Existing
// episodes and insertion order are preserved on update; an empty
// incoming episode list never clears stored episodes.
func (s *Store) UpsertPodcast(ctx context.Context, p recommend.Podcast) error {
	if p.ID == "" {
		return errors.New("catalog: podcast id required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		existing, err := getRecord(txn, p.ID)
		switch {
		case err == nil:
			if len(p.Episodes) == 0 {
				p.Episodes = existing.Podcast.Episodes
			}
			existing.Podcast = p
			return putRecord(txn, existing)
		case errors.Is(err, ErrNotFound):
			seq, err := nextSeq(txn)
			if err != nil {
				return err
			}
			return putRecord(txn, record{Seq: seq, Podcast: p})
		default:
			return err
		}
	})
}

// UpsertEpisodes merges episodes into an existing podcast. Episodes
// with a known ID are replaced in place; new ones append in order.
func (s *Store) UpsertEpisodes(ctx context.Context, podcastID string, episodes []recommend.Episode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		rec, err := getRecord(txn, podcastID)
		if err != nil {
			return err
		}
		index := make(map[string]int, len(rec.Podcast.Episodes))
		for i, ep := range rec.Podcast.Episodes {
			index[ep.ID] = i
		}
		for _, ep := range episodes {
			if ep.ID == "" {
				continue
			}
			if i, ok := index[ep.ID]; ok {
				rec.Podcast.Episodes[i] = ep
			} else {
				index[ep.ID] = len(rec.Podcast.Episodes)
				rec.Podcast.Episodes = append(rec.Podcast.Episodes, ep)
			}
		}
		return putRecord(txn, rec)
	})
}

// Podcasts returns all podcasts in insertion order.
func (s *Store) Podcasts(ctx context.Context) ([]recommend.Podcast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var recs []record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(podcastPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rec record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode podcast: %w", err)
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })
	podcasts := make([]recommend.Podcast, len(recs))
	for i, rec := range recs {
		podcasts[i] = rec.Podcast
	}
	return podcasts, nil
}

// Podcast returns one podcast by ID.
func (s *Store) Podcast(ctx context.Context, id string) (recommend.Podcast, error) {
	if err := ctx.Err(); err != nil {
		return recommend.Podcast{}, err
	}
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = getRecord(txn, id)
		return err
	})
	return rec.Podcast, err
}

// Episode returns a single episode with its podcast context.
func (s *Store) Episode(ctx context.Context, episodeID string) (recommend.CatalogEntry, error) {
	entries, err := s.AllEpisodes(ctx)
	if err != nil {
		return recommend.CatalogEntry{}, err
	}
	for _, entry := range entries {
		if entry.Episode.ID == episodeID {
			return entry, nil
		}
	}
	return recommend.CatalogEntry{}, ErrNotFound
}

// Episodes returns entries for the given episode IDs, skipping unknown
// IDs. Output follows input order.
func (s *Store) Episodes(ctx context.Context, episodeIDs []string) ([]recommend.CatalogEntry, error) {
	entries, err := s.AllEpisodes(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]recommend.CatalogEntry, len(entries))
	for _, entry := range entries {
		index[entry.Episode.ID] = entry
	}
	out := make([]recommend.CatalogEntry, 0, len(episodeIDs))
	for _, id := range episodeIDs {
		if entry, ok := index[id]; ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

// AllEpisodes flattens the catalog into (podcast, episode) entries in
// podcast insertion order, episodes in stored order. Implements
// recommend.CatalogProvider.
func (s *Store) AllEpisodes(ctx context.Context) ([]recommend.CatalogEntry, error) {
	podcasts, err := s.Podcasts(ctx)
	if err != nil {
		return nil, err
	}
	var entries []recommend.CatalogEntry
	for _, p := range podcasts {
		for _, ep := range p.Episodes {
			entries = append(entries, recommend.CatalogEntry{
				PodcastID:    p.ID,
				PodcastTitle: p.Title,
				Episode:      ep,
			})
		}
	}
	return entries, nil
}

// SearchResult is one search hit, either a podcast or an episode.
type SearchResult struct {
	Type    string                  `json:"type"`
	Podcast *recommend.Podcast      `json:"podcast,omitempty"`
	Episode *recommend.CatalogEntry `json:"episode,omitempty"`
}

// Search matches the query case-insensitively against podcast and
// episode titles, descriptions, and tags. Podcast hits come first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	podcasts, err := s.Podcasts(ctx)
	if err != nil {
		return nil, err
	}
	var results []SearchResult
	for i := range podcasts {
		p := podcasts[i]
		if matchesQuery(query, p.Title, p.Description, p.Tags) {
			hit := p
			hit.Episodes = nil
			results = append(results, SearchResult{Type: "podcast", Podcast: &hit})
		}
	}
	for _, p := range podcasts {
		for _, ep := range p.Episodes {
			if matchesQuery(query, ep.Title, ep.Description, ep.Tags) {
				entry := recommend.CatalogEntry{PodcastID: p.ID, PodcastTitle: p.Title, Episode: ep}
				results = append(results, SearchResult{Type: "episode", Episode: &entry})
			}
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func matchesQuery(query, title, description string, tags []string) bool {
	if strings.Contains(strings.ToLower(title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(description), query) {
		return true
	}
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func getRecord(txn *badger.Txn, podcastID string) (record, error) {
	item, err := txn.Get([]byte(podcastPrefix + podcastID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return record{}, ErrNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("get podcast %s: %w", podcastID, err)
	}
	var rec record
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return record{}, fmt.Errorf("decode podcast %s: %w", podcastID, err)
	}
	return rec, nil
}

func putRecord(txn *badger.Txn, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode podcast %s: %w", rec.Podcast.ID, err)
	}
	return txn.Set([]byte(podcastPrefix+rec.Podcast.ID), data)
}

// nextSeq allocates the next insertion sequence number inside txn.
func nextSeq(txn *badger.Txn) (uint64, error) {
	var seq uint64
	item, err := txn.Get([]byte(seqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		seq = 0
	case err != nil:
		return 0, fmt.Errorf("read sequence: %w", err)
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
	if err := txn.Set([]byte(seqKey), buf); err != nil {
		return 0, fmt.Errorf("write sequence: %w", err)
	}
	return seq, nil
}
