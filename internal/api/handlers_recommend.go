// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/auricle/internal/metrics"
	"github.com/tomtom215/auricle/internal/recommend"
)

// recommendations ranks the catalog for the authenticated user.
// Optional query parameters: limit, interests (comma-separated tags
// that earn a score bonus), podcast (restrict to one podcast), source
// (restrict to one import source).
func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	limit := queryInt(r, "limit", 0)

	metrics.RecommendRequestsTotal.Inc()
	start := time.Now()
	items, err := h.deps.Engine.Recommendations(r.Context(), userID, limit)
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		rw.StorageError(err)
		return
	}

	if podcastID := r.URL.Query().Get("podcast"); podcastID != "" {
		items = recommend.FilterItems(items, func(it recommend.RecommendationItem) bool {
			return it.PodcastID == podcastID
		})
	}
	if source := r.URL.Query().Get("source"); source != "" {
		fromSource, err := h.podcastsBySource(r.Context(), source)
		if err != nil {
			rw.StorageError(err)
			return
		}
		items = recommend.FilterItems(items, func(it recommend.RecommendationItem) bool {
			_, ok := fromSource[it.PodcastID]
			return ok
		})
	}
	if raw := r.URL.Query().Get("interests"); raw != "" {
		items = recommend.ApplyInterestBonus(items, strings.Split(raw, ","), h.deps.Engine.Config())
	}

	rw.SuccessWithPagination(items, &PaginationMeta{Count: len(items), Limit: limit})
}

// podcastsBySource returns the set of podcast IDs created by the given
// import source.
func (h *Handlers) podcastsBySource(ctx context.Context, source string) (map[string]struct{}, error) {
	podcasts, err := h.deps.Catalog.Podcasts(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{})
	for _, p := range podcasts {
		if p.Source == source {
			ids[p.ID] = struct{}{}
		}
	}
	return ids, nil
}

// episodeScore returns the score of one episode for the user. Unknown
// episodes score 0 rather than erroring.
func (h *Handlers) episodeScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	episodeID := chi.URLParam(r, "episodeID")
	score, err := h.deps.Engine.ScoreEpisode(r.Context(), userID, episodeID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(map[string]any{"episode_id": episodeID, "score": score})
}

// topTags returns the user's highest-weight profile terms.
func (h *Handlers) topTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	tags, err := h.deps.Engine.TopUserTags(r.Context(), userID, queryInt(r, "max", 0))
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(map[string]any{"tags": tags})
}

// suggestedPlaylists synthesizes tag-grouped playlists for the user.
func (h *Handlers) suggestedPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	lists, err := h.deps.Engine.RecommendedPlaylists(r.Context(), userID,
		queryInt(r, "max", 0), queryInt(r, "size", 0))
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(lists, &PaginationMeta{Count: len(lists)})
}
