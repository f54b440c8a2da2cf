// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/auricle/internal/recommend"
)

func TestRecommendationsEndpoint(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("rec@example.com")
	app.importSamples(token)

	// Build a technology-leaning profile.
	for _, ep := range []string{"sample-ss-1", "sample-ss-2"} {
		rec := app.do(http.MethodPost, "/api/v1/history", token, recordPlayRequest{EpisodeID: ep})
		if rec.Code != http.StatusCreated {
			t.Fatalf("record play status = %d", rec.Code)
		}
	}

	rec := app.do(http.MethodGet, "/api/v1/recommendations?limit=3", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations status = %d, body %s", rec.Code, rec.Body.String())
	}
	var items []recommend.RecommendationItem
	if err := json.Unmarshal(app.decode(rec).Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Score > items[i-1].Score {
			t.Errorf("items not sorted by score: %v then %v", items[i-1].Score, items[i].Score)
		}
	}
	// A technology episode should outrank the history-only catalog tail.
	if items[0].PodcastID == "sample-midnight-archive" {
		t.Errorf("top item %q does not match listening profile", items[0].Episode.ID)
	}
}

func TestRecommendationsFilters(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("filters@example.com")
	app.importSamples(token)

	rec := app.do(http.MethodGet, "/api/v1/recommendations?podcast=sample-daily-ledger", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered recommendations status = %d", rec.Code)
	}
	var items []recommend.RecommendationItem
	if err := json.Unmarshal(app.decode(rec).Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("filtered items = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.PodcastID != "sample-daily-ledger" {
			t.Errorf("item %q from podcast %q escaped the filter", it.Episode.ID, it.PodcastID)
		}
	}

	rec = app.do(http.MethodGet, "/api/v1/recommendations?source=spotify", token, nil)
	if err := json.Unmarshal(app.decode(rec).Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("spotify-source items = %d, want 0 (sample catalog only)", len(items))
	}

	// Interest bonus lifts matching episodes for a cold user.
	rec = app.do(http.MethodGet, "/api/v1/recommendations?interests=history", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("interest recommendations status = %d", rec.Code)
	}
	if err := json.Unmarshal(app.decode(rec).Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if items[0].PodcastID != "sample-midnight-archive" {
		t.Errorf("top item podcast = %q, want history podcast first", items[0].PodcastID)
	}
	// Fresh-episode boost 0.2 plus one interest match bonus 0.1.
	if items[0].Score != 0.3 {
		t.Errorf("bonus score = %v, want 0.3", items[0].Score)
	}
}

func TestEpisodeScoreEndpoint(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("score@example.com")
	app.importSamples(token)

	rec := app.do(http.MethodGet, "/api/v1/episodes/unknown-ep/score", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("score status = %d", rec.Code)
	}
	var got struct {
		EpisodeID string  `json:"episode_id"`
		Score     float64 `json:"score"`
	}
	if err := json.Unmarshal(app.decode(rec).Data, &got); err != nil {
		t.Fatalf("decode score: %v", err)
	}
	if got.Score != 0 {
		t.Errorf("unknown episode score = %v, want 0", got.Score)
	}
}

func TestTopTagsEndpoint(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("tags@example.com")
	app.importSamples(token)

	app.do(http.MethodPost, "/api/v1/history", token, recordPlayRequest{EpisodeID: "sample-ss-1"})

	rec := app.do(http.MethodGet, "/api/v1/tags/top?max=2", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("top tags status = %d", rec.Code)
	}
	var got struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(app.decode(rec).Data, &got); err != nil {
		t.Fatalf("decode tags: %v", err)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "technology" {
		t.Errorf("tags = %v, want technology first", got.Tags)
	}
}

func TestSuggestedPlaylistsEndpoint(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("suggested@example.com")
	app.importSamples(token)

	// A user with no history still gets tag playlists ranked by catalog
	// popularity; technology is the most common sample tag.
	rec := app.do(http.MethodGet, "/api/v1/playlists/suggested", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suggested status = %d", rec.Code)
	}
	var lists []recommend.Playlist
	if err := json.Unmarshal(app.decode(rec).Data, &lists); err != nil {
		t.Fatalf("decode playlists: %v", err)
	}
	if len(lists) == 0 || lists[0].ID != "auto-technology" {
		t.Fatalf("cold playlists = %+v, want technology-led tag playlists", lists)
	}

	app.do(http.MethodPost, "/api/v1/history", token, recordPlayRequest{EpisodeID: "sample-ss-1"})
	rec = app.do(http.MethodGet, "/api/v1/playlists/suggested?max=2", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("suggested status = %d", rec.Code)
	}
	if err := json.Unmarshal(app.decode(rec).Data, &lists); err != nil {
		t.Fatalf("decode playlists: %v", err)
	}
	if len(lists) == 0 || lists[0].ID == recommend.FallbackPlaylistID {
		t.Errorf("warm playlists = %+v, want tag-derived playlists", lists)
	}
}
