// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"net/http"

	"github.com/tomtom215/auricle/internal/metrics"
)

// listNotifications returns recent new-episode notifications.
func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	items, err := h.deps.Notifications.Recent(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.SuccessWithPagination(items, &PaginationMeta{Count: len(items)})
}

// getDigest builds the user's listening digest from recent plays.
func (h *Handlers) getDigest(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	digest, err := h.deps.Digests.Build(r.Context(), userID)
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(digest)
}

// triggerImport runs a catalog import seeded from the caller's top tags.
func (h *Handlers) triggerImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	if h.deps.Importer == nil {
		rw.ServiceUnavailable("catalog import is not configured")
		return
	}
	imported, err := h.deps.Importer.Run(r.Context(), userID)
	if err != nil {
		metrics.ImportRunsTotal.WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Msg("manual import failed")
		rw.InternalError("catalog import failed")
		return
	}
	metrics.ImportRunsTotal.WithLabelValues("ok").Inc()
	metrics.ImportedEpisodesTotal.Add(float64(imported))
	rw.Success(map[string]any{"imported": imported})
}

// rebuildEmbeddings refreshes episode vectors and the caller's user
// vector. Answers 503 when no embeddings API key is configured.
func (h *Handlers) rebuildEmbeddings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	builder := h.deps.EmbeddingBuilder
	if builder == nil || !builder.Enabled() {
		rw.ServiceUnavailable("embeddings api is not configured")
		return
	}

	built, err := builder.BuildEpisodeEmbeddings(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("embedding rebuild failed")
		rw.InternalError("embedding rebuild failed")
		return
	}
	metrics.EmbeddingsBuiltTotal.Add(float64(built))

	tags, err := h.deps.Engine.TopUserTags(r.Context(), userID, 0)
	if err != nil {
		rw.StorageError(err)
		return
	}
	if err := builder.BuildUserEmbedding(r.Context(), userID, tags); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("user embedding rebuild failed")
	}
	rw.Success(map[string]any{"episodes_built": built, "user_tags": tags})
}
