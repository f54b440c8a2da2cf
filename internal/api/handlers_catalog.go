// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/auricle/internal/catalog"
)

// listPodcasts returns the catalog in insertion order, optionally
// restricted to one import source (?source=sample|spotify).
func (h *Handlers) listPodcasts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	podcasts, err := h.deps.Catalog.Podcasts(r.Context())
	if err != nil {
		rw.StorageError(err)
		return
	}
	if source := r.URL.Query().Get("source"); source != "" {
		filtered := podcasts[:0]
		for _, p := range podcasts {
			if p.Source == source {
				filtered = append(filtered, p)
			}
		}
		podcasts = filtered
	}
	rw.SuccessWithPagination(podcasts, &PaginationMeta{Count: len(podcasts)})
}

// getPodcast returns one podcast with its episodes.
func (h *Handlers) getPodcast(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	podcast, err := h.deps.Catalog.Podcast(r.Context(), chi.URLParam(r, "podcastID"))
	if errors.Is(err, catalog.ErrNotFound) {
		rw.NotFound("podcast not found")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(podcast)
}

// getEpisode returns one episode with its podcast context.
func (h *Handlers) getEpisode(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	entry, err := h.deps.Catalog.Episode(r.Context(), chi.URLParam(r, "episodeID"))
	if errors.Is(err, catalog.ErrNotFound) {
		rw.NotFound("episode not found")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(entry)
}

// batchEpisodes resolves a list of episode IDs. Unknown IDs are
// silently skipped; output follows input order.
func (h *Handlers) batchEpisodes(w http.ResponseWriter, r *http.Request) {
	var req episodeBatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)
	entries, err := h.deps.Catalog.Episodes(r.Context(), req.IDs)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(entries, &PaginationMeta{Count: len(entries)})
}

// search matches podcasts and episodes against a free-text query.
func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	query := r.URL.Query().Get("q")
	if query == "" {
		rw.BadRequest("query parameter q is required")
		return
	}
	limit := queryInt(r, "limit", 20)
	results, err := h.deps.Catalog.Search(r.Context(), query, limit)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(results, &PaginationMeta{Count: len(results), Limit: limit})
}
