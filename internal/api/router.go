// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/auricle/internal/auth"
)

// NewRouter assembles the full HTTP surface. Registration, login,
// health, and metrics are public; everything else requires a Bearer
// token.
func NewRouter(h *Handlers, tokens *auth.Manager, mwConfig MiddlewareConfig) http.Handler {
	m := NewMiddleware(mwConfig)

	r := chi.NewRouter()
	r.Use(RequestID())
	r.Use(SecurityHeaders())
	r.Use(m.CORS())
	r.Use(Metrics())
	r.Use(RequestLogger())

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(m.RateLimitAuth())
			r.Post("/auth/register", h.register)
			r.Post("/auth/login", h.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(m.RateLimit())
			r.Use(tokens.Middleware)

			r.Get("/auth/me", h.me)

			r.Get("/podcasts", h.listPodcasts)
			r.Get("/podcasts/{podcastID}", h.getPodcast)
			r.Get("/episodes/{episodeID}", h.getEpisode)
			r.Post("/episodes/batch", h.batchEpisodes)
			r.Get("/search", h.search)

			r.Get("/recommendations", h.recommendations)
			r.Get("/episodes/{episodeID}/score", h.episodeScore)
			r.Get("/tags/top", h.topTags)
			r.Get("/playlists/suggested", h.suggestedPlaylists)

			r.Post("/history", h.recordPlay)
			r.Get("/history", h.listHistory)
			r.Put("/positions/{episodeID}", h.setPosition)
			r.Get("/positions/{episodeID}", h.getPosition)
			r.Get("/positions", h.listPositions)

			r.Put("/episodes/{episodeID}/rating", h.rateEpisode)
			r.Get("/episodes/{episodeID}/ratings", h.episodeRatings)
			r.Post("/episodes/{episodeID}/reviews", h.addReview)
			r.Get("/episodes/{episodeID}/reviews", h.listReviews)

			r.Put("/downloads/{episodeID}", h.addDownload)
			r.Delete("/downloads/{episodeID}", h.removeDownload)
			r.Get("/downloads", h.listDownloads)

			r.Post("/playlists", h.createPlaylist)
			r.Get("/playlists", h.listPlaylists)
			r.Get("/playlists/{playlistID}", h.getPlaylist)
			r.Post("/playlists/{playlistID}/episodes", h.addPlaylistEpisode)
			r.Delete("/playlists/{playlistID}/episodes/{episodeID}", h.removePlaylistEpisode)
			r.Patch("/playlists/{playlistID}", h.renamePlaylist)
			r.Delete("/playlists/{playlistID}", h.deletePlaylist)

			r.Get("/notifications", h.listNotifications)
			r.Get("/digest", h.getDigest)

			r.Post("/admin/import", h.triggerImport)
			r.Post("/admin/embeddings/rebuild", h.rebuildEmbeddings)
		})
	})

	return r
}
