// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auricle/internal/catalog"
	"github.com/tomtom215/auricle/internal/events"
)

func newTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return catalog.NewStore(db)
}

type staticTags []string

func (s staticTags) TopUserTags(ctx context.Context, userID string, max int) ([]string, error) {
	return s, nil
}

func TestImportSamples(t *testing.T) {
	cat := newTestCatalog(t)
	im := NewImporter(cat, nil, nil, nil, zerolog.Nop())

	imported, err := im.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if imported == 0 {
		t.Fatal("no sample episodes imported")
	}

	podcasts, err := cat.Podcasts(context.Background())
	if err != nil {
		t.Fatalf("Podcasts() error = %v", err)
	}
	if len(podcasts) != 3 {
		t.Errorf("podcast count = %d, want 3 samples", len(podcasts))
	}

	// Re-running must not duplicate anything.
	again, err := im.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if again != 0 {
		t.Errorf("second run imported %d, want 0", again)
	}
}

func TestImportPublishesEvents(t *testing.T) {
	cat := newTestCatalog(t)
	bus := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{})
	defer bus.Close()

	sub, err := bus.Subscribe(context.Background(), events.TopicEpisodeImported)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	im := NewImporter(cat, nil, nil, bus, zerolog.Nop())
	imported, err := im.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	received := 0
	timeout := time.After(2 * time.Second)
	for received < imported {
		select {
		case msg := <-sub:
			ev, err := events.DecodeEpisodeImported(msg)
			if err != nil {
				t.Fatalf("decode event: %v", err)
			}
			if ev.EpisodeID == "" || ev.PodcastID == "" {
				t.Errorf("incomplete event: %+v", ev)
			}
			msg.Ack()
			received++
		case <-timeout:
			t.Fatalf("received %d of %d events before timeout", received, imported)
		}
	}
}

func newSpotifyStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "stub-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stub-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"shows": map[string]interface{}{
				"items": []map[string]interface{}{
					{"id": "show1", "name": "Stub Show", "description": "about " + r.URL.Query().Get("q"), "publisher": "Stub"},
				},
			},
		})
	})
	mux.HandleFunc("/shows/show1/episodes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": "ep1", "name": "Stub Episode", "description": "d", "release_date": "2026-05-01", "duration_ms": 60000},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestImportFromSpotify(t *testing.T) {
	srv := newSpotifyStub(t)
	defer srv.Close()

	client, err := NewSpotifyClient(SpotifyConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/token",
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSpotifyClient() error = %v", err)
	}

	cat := newTestCatalog(t)
	im := NewImporter(cat, staticTags{"ai"}, client, nil, zerolog.Nop())

	imported, err := im.Run(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if imported != 1 {
		t.Errorf("imported = %d, want 1", imported)
	}

	p, err := cat.Podcast(context.Background(), "sp-show1")
	if err != nil {
		t.Fatalf("imported podcast missing: %v", err)
	}
	if p.SpotifyShowID != "show1" || len(p.Episodes) != 1 {
		t.Errorf("podcast = %+v", p)
	}
	ep := p.Episodes[0]
	if ep.SpotifyID != "ep1" || ep.DurationSec != 60 {
		t.Errorf("episode = %+v", ep)
	}
	if len(ep.Tags) != 1 || ep.Tags[0] != "ai" {
		t.Errorf("episode tags = %v, want search tag attached", ep.Tags)
	}
	if ep.PublishedAt.IsZero() {
		t.Error("release date not parsed")
	}
}

func TestNewSpotifyClientRequiresCredentials(t *testing.T) {
	if _, err := NewSpotifyClient(SpotifyConfig{}, zerolog.Nop()); err == nil {
		t.Error("missing credentials accepted")
	}
}
