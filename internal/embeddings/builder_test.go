// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package embeddings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auricle/internal/recommend"
)

type staticCatalog []recommend.CatalogEntry

func (c staticCatalog) AllEpisodes(ctx context.Context) ([]recommend.CatalogEntry, error) {
	return c, nil
}

func newEmbeddingsServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req struct {
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float64{float64(len(req.Input)), 1, 0}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestBuildEpisodeEmbeddings(t *testing.T) {
	var calls atomic.Int64
	srv := newEmbeddingsServer(t, &calls)
	defer srv.Close()

	store := NewStore(newTestDB(t))
	catalog := staticCatalog{
		{PodcastID: "p1", Episode: recommend.Episode{ID: "e1", Title: "Intro", Tags: []string{"ai"}}},
		{PodcastID: "p1", Episode: recommend.Episode{ID: "e2", Title: "Next"}},
		{PodcastID: "p1", Episode: recommend.Episode{ID: "e3"}}, // no text, skipped
	}
	b := NewBuilder(BuilderConfig{APIKey: "test-key", BaseURL: srv.URL}, store, catalog, zerolog.Nop())

	built, err := b.BuildEpisodeEmbeddings(context.Background())
	if err != nil {
		t.Fatalf("BuildEpisodeEmbeddings() error = %v", err)
	}
	if built != 2 {
		t.Errorf("built = %d, want 2", built)
	}

	vec, err := store.EpisodeEmbedding(context.Background(), "e1")
	if err != nil || len(vec) != 3 {
		t.Errorf("stored vector = %v, %v", vec, err)
	}

	// Second run finds everything cached and makes no API calls.
	calls.Store(0)
	built, err = b.BuildEpisodeEmbeddings(context.Background())
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if built != 0 || calls.Load() != 0 {
		t.Errorf("second run built=%d calls=%d, want 0/0", built, calls.Load())
	}
}

func TestBuildUserEmbedding(t *testing.T) {
	var calls atomic.Int64
	srv := newEmbeddingsServer(t, &calls)
	defer srv.Close()

	store := NewStore(newTestDB(t))
	b := NewBuilder(BuilderConfig{APIKey: "test-key", BaseURL: srv.URL}, store, staticCatalog{}, zerolog.Nop())

	if err := b.BuildUserEmbedding(context.Background(), "u1", []string{"ai", "tech"}); err != nil {
		t.Fatalf("BuildUserEmbedding() error = %v", err)
	}
	vec, err := store.UserEmbedding(context.Background(), "u1")
	if err != nil || len(vec) == 0 {
		t.Errorf("user vector = %v, %v", vec, err)
	}

	// No tags, nothing to embed, no call.
	calls.Store(0)
	if err := b.BuildUserEmbedding(context.Background(), "u2", nil); err != nil {
		t.Fatalf("BuildUserEmbedding(no tags) error = %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("api called for empty tag list")
	}
}

func TestBuilderDisabledWithoutKey(t *testing.T) {
	store := NewStore(newTestDB(t))
	catalog := staticCatalog{
		{PodcastID: "p1", Episode: recommend.Episode{ID: "e1", Title: "Intro"}},
	}
	b := NewBuilder(BuilderConfig{}, store, catalog, zerolog.Nop())

	built, err := b.BuildEpisodeEmbeddings(context.Background())
	if err != nil || built != 0 {
		t.Errorf("disabled builder = %d, %v, want 0, nil", built, err)
	}
}

func TestBuilderSkipsFailedEpisodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewStore(newTestDB(t))
	catalog := staticCatalog{
		{PodcastID: "p1", Episode: recommend.Episode{ID: "e1", Title: "Intro"}},
	}
	b := NewBuilder(BuilderConfig{APIKey: "test-key", BaseURL: srv.URL}, store, catalog, zerolog.Nop())

	built, err := b.BuildEpisodeEmbeddings(context.Background())
	if err != nil {
		t.Fatalf("single failure should not abort the run: %v", err)
	}
	if built != 0 {
		t.Errorf("built = %d, want 0", built)
	}
}
