// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/auricle/internal/playlists"
	"github.com/tomtom215/auricle/internal/recommend"
)

func TestHistoryAndPositions(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("history@example.com")
	app.importSamples(token)

	rec := app.do(http.MethodPost, "/api/v1/history", token, recordPlayRequest{EpisodeID: "sample-ss-1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("record play status = %d", rec.Code)
	}
	rec = app.do(http.MethodPost, "/api/v1/history", token, recordPlayRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty play status = %d, want 400", rec.Code)
	}

	rec = app.do(http.MethodGet, "/api/v1/history", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list history status = %d", rec.Code)
	}
	var events []recommend.PlayEvent
	if err := json.Unmarshal(app.decode(rec).Data, &events); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(events) != 1 || events[0].EpisodeID != "sample-ss-1" {
		t.Errorf("history = %+v", events)
	}

	rec = app.do(http.MethodPut, "/api/v1/positions/sample-ss-1", token, setPositionRequest{PositionSec: 431.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("set position status = %d", rec.Code)
	}
	rec = app.do(http.MethodGet, "/api/v1/positions/sample-ss-1", token, nil)
	var pos struct {
		PositionSec float64 `json:"position_sec"`
	}
	if err := json.Unmarshal(app.decode(rec).Data, &pos); err != nil {
		t.Fatalf("decode position: %v", err)
	}
	if pos.PositionSec != 431.5 {
		t.Errorf("position = %v, want 431.5", pos.PositionSec)
	}

	rec = app.do(http.MethodGet, "/api/v1/positions", token, nil)
	var all map[string]float64
	if err := json.Unmarshal(app.decode(rec).Data, &all); err != nil {
		t.Fatalf("decode positions: %v", err)
	}
	if all["sample-ss-1"] != 431.5 {
		t.Errorf("positions = %v", all)
	}
}

func TestRatingsAndReviews(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("rater@example.com")
	otherToken, _ := app.register("rater2@example.com")
	app.importSamples(token)

	rec := app.do(http.MethodPut, "/api/v1/episodes/sample-ss-1/rating", token, rateRequest{Score: 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("rate status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = app.do(http.MethodPut, "/api/v1/episodes/sample-ss-1/rating", otherToken, rateRequest{Score: 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("second rate status = %d", rec.Code)
	}
	rec = app.do(http.MethodPut, "/api/v1/episodes/sample-ss-1/rating", token, rateRequest{Score: 9})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range score status = %d, want 400", rec.Code)
	}

	rec = app.do(http.MethodGet, "/api/v1/episodes/sample-ss-1/ratings", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ratings status = %d", rec.Code)
	}
	var got struct {
		Summary   recommend.RatingSummary `json:"summary"`
		UserScore int                     `json:"user_score"`
	}
	if err := json.Unmarshal(app.decode(rec).Data, &got); err != nil {
		t.Fatalf("decode ratings: %v", err)
	}
	if got.Summary.Count != 2 || got.Summary.Average != 4 {
		t.Errorf("summary = %+v, want avg 4 of 2", got.Summary)
	}
	if got.UserScore != 5 {
		t.Errorf("user score = %d, want 5", got.UserScore)
	}

	rec = app.do(http.MethodPost, "/api/v1/episodes/sample-ss-1/reviews", token, reviewRequest{Text: "Great discussion."})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add review status = %d", rec.Code)
	}
	rec = app.do(http.MethodGet, "/api/v1/episodes/sample-ss-1/reviews", token, nil)
	env := app.decode(rec)
	if env.Meta == nil || env.Meta.Pagination == nil || env.Meta.Pagination.Count != 1 {
		t.Errorf("reviews pagination = %+v, want count 1", env.Meta)
	}
}

func TestDownloadsEndpoints(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("dl@example.com")
	app.importSamples(token)

	rec := app.do(http.MethodPut, "/api/v1/downloads/sample-ss-1", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add download status = %d", rec.Code)
	}
	rec = app.do(http.MethodGet, "/api/v1/downloads", token, nil)
	env := app.decode(rec)
	if env.Meta.Pagination.Count != 1 {
		t.Errorf("downloads count = %d, want 1", env.Meta.Pagination.Count)
	}

	rec = app.do(http.MethodDelete, "/api/v1/downloads/sample-ss-1", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("remove download status = %d, want 204", rec.Code)
	}
	rec = app.do(http.MethodDelete, "/api/v1/downloads/sample-ss-1", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double remove status = %d, want 404", rec.Code)
	}
}

func TestPlaylistEndpoints(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register("pl@example.com")
	strangerToken, _ := app.register("stranger@example.com")
	app.importSamples(token)

	rec := app.do(http.MethodPost, "/api/v1/playlists", token, createPlaylistRequest{Name: "Commute"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create playlist status = %d", rec.Code)
	}
	var pl playlists.Playlist
	if err := json.Unmarshal(app.decode(rec).Data, &pl); err != nil {
		t.Fatalf("decode playlist: %v", err)
	}

	rec = app.do(http.MethodPost, "/api/v1/playlists/"+pl.ID+"/episodes", token,
		playlistEpisodeRequest{EpisodeID: "sample-ss-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add episode status = %d", rec.Code)
	}

	// Ownership is scoped: another user cannot see the playlist.
	rec = app.do(http.MethodGet, "/api/v1/playlists/"+pl.ID, strangerToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-user get status = %d, want 404", rec.Code)
	}

	rec = app.do(http.MethodPatch, "/api/v1/playlists/"+pl.ID, token, renamePlaylistRequest{Name: "Morning Commute"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d", rec.Code)
	}
	if err := json.Unmarshal(app.decode(rec).Data, &pl); err != nil {
		t.Fatalf("decode renamed: %v", err)
	}
	if pl.Name != "Morning Commute" || len(pl.EpisodeIDs) != 1 {
		t.Errorf("renamed playlist = %+v", pl)
	}

	rec = app.do(http.MethodDelete, "/api/v1/playlists/"+pl.ID+"/episodes/sample-ss-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove episode status = %d", rec.Code)
	}
	rec = app.do(http.MethodDelete, "/api/v1/playlists/"+pl.ID+"/episodes/sample-ss-1", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("remove absent episode status = %d, want 404", rec.Code)
	}

	rec = app.do(http.MethodDelete, "/api/v1/playlists/"+pl.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete playlist status = %d, want 204", rec.Code)
	}
	rec = app.do(http.MethodGet, "/api/v1/playlists/"+pl.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted playlist get status = %d, want 404", rec.Code)
	}
}
