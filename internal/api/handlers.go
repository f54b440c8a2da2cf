// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tomtom215/auricle/internal/auth"
	"github.com/tomtom215/auricle/internal/catalog"
	"github.com/tomtom215/auricle/internal/downloads"
	"github.com/tomtom215/auricle/internal/embeddings"
	"github.com/tomtom215/auricle/internal/history"
	"github.com/tomtom215/auricle/internal/ingest"
	"github.com/tomtom215/auricle/internal/notify"
	"github.com/tomtom215/auricle/internal/playlists"
	"github.com/tomtom215/auricle/internal/ratings"
	"github.com/tomtom215/auricle/internal/recommend"
	"github.com/tomtom215/auricle/internal/users"
)

// Deps bundles everything the handlers reach into. Importer and
// EmbeddingBuilder are optional; their endpoints answer 503 when unset.
type Deps struct {
	Users            *users.Store
	Tokens           *auth.Manager
	Catalog          *catalog.Store
	History          *history.Store
	Ratings          *ratings.Store
	Downloads        *downloads.Store
	Playlists        *playlists.Store
	Notifications    *notify.Store
	Digests          *notify.DigestBuilder
	Engine           *recommend.Engine
	Importer         *ingest.Importer
	EmbeddingBuilder *embeddings.Builder
	Logger           zerolog.Logger
}

// Handlers implements all HTTP endpoints.
type Handlers struct {
	deps   Deps
	logger zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: deps.Logger.With().Str("component", "api").Logger(),
	}
}

// currentUserID extracts the authenticated user from the request
// context. Behind the auth middleware this always succeeds; the guard
// covers misrouted handlers.
func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == "" {
		NewResponseWriter(w, r).Unauthorized("authentication required")
		return "", false
	}
	return claims.UserID, true
}

// queryInt parses an integer query parameter, returning fallback when
// absent or malformed.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// health answers liveness probes.
func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ok"})
}
