// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/auricle/internal/downloads"
	"github.com/tomtom215/auricle/internal/playlists"
	"github.com/tomtom215/auricle/internal/ratings"
)

// recordPlay appends a playback event to the user's history.
func (h *Handlers) recordPlay(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req recordPlayRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	if err := h.deps.History.RecordPlay(r.Context(), userID, req.EpisodeID, req.PlayedAt); err != nil {
		rw.StorageError(err)
		return
	}
	rw.Created(map[string]string{"episode_id": req.EpisodeID})
}

// listHistory returns the user's play events, oldest first.
func (h *Handlers) listHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	events, err := h.deps.History.UserHistory(r.Context(), userID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(events, &PaginationMeta{Count: len(events)})
}

// setPosition saves the playback position for an episode.
func (h *Handlers) setPosition(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req setPositionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	episodeID := chi.URLParam(r, "episodeID")
	if err := h.deps.History.SetPosition(r.Context(), userID, episodeID, req.PositionSec); err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(map[string]any{"episode_id": episodeID, "position_sec": req.PositionSec})
}

// getPosition returns the stored position, zero when never set.
func (h *Handlers) getPosition(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	episodeID := chi.URLParam(r, "episodeID")
	seconds, err := h.deps.History.Position(r.Context(), userID, episodeID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(map[string]any{"episode_id": episodeID, "position_sec": seconds})
}

// listPositions returns all saved positions keyed by episode ID.
func (h *Handlers) listPositions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	positions, err := h.deps.History.Positions(r.Context(), userID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(positions)
}

// rateEpisode upserts the user's score and returns the fresh aggregate.
func (h *Handlers) rateEpisode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req rateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	episodeID := chi.URLParam(r, "episodeID")
	if err := h.deps.Ratings.Rate(r.Context(), userID, episodeID, req.Score); err != nil {
		if errors.Is(err, ratings.ErrInvalidScore) {
			rw.BadRequest("score must be between 1 and 5")
			return
		}
		rw.StorageError(err)
		return
	}
	summary, err := h.deps.Ratings.EpisodeRatings(r.Context(), episodeID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(map[string]any{"episode_id": episodeID, "summary": summary})
}

// episodeRatings returns the aggregate plus the caller's own score.
func (h *Handlers) episodeRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	episodeID := chi.URLParam(r, "episodeID")
	summary, err := h.deps.Ratings.EpisodeRatings(r.Context(), episodeID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	own, err := h.deps.Ratings.UserRating(r.Context(), userID, episodeID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(map[string]any{"episode_id": episodeID, "summary": summary, "user_score": own})
}

// addReview stores a text review for an episode.
func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	review, err := h.deps.Ratings.AddReview(r.Context(), userID, chi.URLParam(r, "episodeID"), req.Text)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Created(review)
}

// listReviews returns an episode's reviews, oldest first.
func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	reviews, err := h.deps.Ratings.Reviews(r.Context(), chi.URLParam(r, "episodeID"))
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(reviews, &PaginationMeta{Count: len(reviews)})
}

// addDownload marks an episode as saved for offline listening.
func (h *Handlers) addDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	episodeID := chi.URLParam(r, "episodeID")
	if err := h.deps.Downloads.Add(r.Context(), userID, episodeID); err != nil {
		rw.StorageError(err)
		return
	}
	rw.Created(map[string]string{"episode_id": episodeID})
}

// removeDownload drops an episode from the user's downloads.
func (h *Handlers) removeDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	err := h.deps.Downloads.Remove(r.Context(), userID, chi.URLParam(r, "episodeID"))
	if errors.Is(err, downloads.ErrNotFound) {
		rw.NotFound("download not found")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.NoContent()
}

// listDownloads returns the user's saved episodes.
func (h *Handlers) listDownloads(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	list, err := h.deps.Downloads.List(r.Context(), userID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(list, &PaginationMeta{Count: len(list)})
}

// createPlaylist makes a new empty user playlist.
func (h *Handlers) createPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req createPlaylistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	pl, err := h.deps.Playlists.Create(r.Context(), userID, req.Name)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Created(pl)
}

// listPlaylists returns the user's playlists, oldest first.
func (h *Handlers) listPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	list, err := h.deps.Playlists.List(r.Context(), userID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(list, &PaginationMeta{Count: len(list)})
}

// getPlaylist returns one of the user's playlists.
func (h *Handlers) getPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	pl, err := h.deps.Playlists.Get(r.Context(), userID, chi.URLParam(r, "playlistID"))
	if errors.Is(err, playlists.ErrNotFound) {
		rw.NotFound("playlist not found")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(pl)
}

// addPlaylistEpisode appends an episode to a playlist.
func (h *Handlers) addPlaylistEpisode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req playlistEpisodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	pl, err := h.deps.Playlists.AddEpisode(r.Context(), userID, chi.URLParam(r, "playlistID"), req.EpisodeID)
	if errors.Is(err, playlists.ErrNotFound) {
		rw.NotFound("playlist not found")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(pl)
}

// removePlaylistEpisode drops an episode from a playlist.
func (h *Handlers) removePlaylistEpisode(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	pl, err := h.deps.Playlists.RemoveEpisode(r.Context(), userID,
		chi.URLParam(r, "playlistID"), chi.URLParam(r, "episodeID"))
	switch {
	case errors.Is(err, playlists.ErrNotFound):
		rw.NotFound("playlist not found")
		return
	case errors.Is(err, playlists.ErrEpisodeNotInPlaylist):
		rw.NotFound("episode not in playlist")
		return
	case err != nil:
		rw.StorageError(err)
		return
	}
	rw.Success(pl)
}

// renamePlaylist changes a playlist's display name.
func (h *Handlers) renamePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req renamePlaylistRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	pl, err := h.deps.Playlists.Rename(r.Context(), userID, chi.URLParam(r, "playlistID"), req.Name)
	if errors.Is(err, playlists.ErrNotFound) {
		rw.NotFound("playlist not found")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(pl)
}

// deletePlaylist removes a playlist entirely.
func (h *Handlers) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	err := h.deps.Playlists.Delete(r.Context(), userID, chi.URLParam(r, "playlistID"))
	if errors.Is(err, playlists.ErrNotFound) {
		rw.NotFound("playlist not found")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.NoContent()
}
