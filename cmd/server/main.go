// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package main is the entry point for the Auricle server.
//
// Auricle is a self-hosted podcast discovery service: it profiles each
// user's listening history, scores the catalog against that profile,
// and serves ranked recommendations, synthesized playlists, and
// new-episode digests over a REST API.
//
// Startup order:
//
//  1. Configuration: koanf v2 with defaults, optional YAML file, and
//     AURICLE_* environment variables
//  2. Logging: zerolog, JSON or console format
//  3. Storage: embedded Badger (in-memory when database.path is empty)
//  4. Domain stores, recommendation engine, and event bus
//  5. Supervisor tree: HTTP server plus background jobs under suture
//
// Shutdown on SIGINT/SIGTERM is graceful: the HTTP listener drains
// in-flight requests, background jobs stop, and the database closes
// last.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/auricle/internal/api"
	"github.com/tomtom215/auricle/internal/auth"
	"github.com/tomtom215/auricle/internal/catalog"
	"github.com/tomtom215/auricle/internal/config"
	"github.com/tomtom215/auricle/internal/downloads"
	"github.com/tomtom215/auricle/internal/embeddings"
	"github.com/tomtom215/auricle/internal/events"
	"github.com/tomtom215/auricle/internal/history"
	"github.com/tomtom215/auricle/internal/ingest"
	"github.com/tomtom215/auricle/internal/logging"
	"github.com/tomtom215/auricle/internal/notify"
	"github.com/tomtom215/auricle/internal/playlists"
	"github.com/tomtom215/auricle/internal/ratings"
	"github.com/tomtom215/auricle/internal/recommend"
	"github.com/tomtom215/auricle/internal/supervisor"
	"github.com/tomtom215/auricle/internal/supervisor/services"
	"github.com/tomtom215/auricle/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().Str("addr", cfg.Server.Addr()).Msg("starting auricle")

	db, err := openDatabase(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("close database")
		}
	}()

	// Stores.
	catalogStore := catalog.NewStore(db)
	historyStore := history.NewStore(db)
	ratingStore := ratings.NewStore(db)
	downloadStore := downloads.NewStore(db)
	playlistStore := playlists.NewStore(db)
	notifyStore := notify.NewStore(db)
	embedStore := embeddings.NewStore(db)
	userStore := users.NewStore(db, cfg.Auth.BcryptCost)

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// Sessions will not survive a restart without a configured secret.
		secret = uuid.NewString()
		logger.Warn().Msg("auth.jwt_secret not set, using an ephemeral secret")
	}
	tokens, err := auth.NewManager(secret, cfg.Auth.TokenTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("configure auth")
	}

	engine, err := recommend.NewEngine(cfg.Recommend, recommend.Providers{
		Catalog:    catalogStore,
		History:    historyStore,
		Ratings:    ratingStore,
		Embeddings: embedStore,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("build recommendation engine")
	}

	// Event bus: importer publishes, the notify subscriber consumes.
	bus := gochannel.NewGoChannel(gochannel.Config{}, events.NewZerologAdapter(logger))
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("close event bus")
		}
	}()

	var spotify *ingest.SpotifyClient
	if cfg.Spotify.Enabled() {
		spotify, err = ingest.NewSpotifyClient(ingest.SpotifyConfig{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			BaseURL:      cfg.Spotify.BaseURL,
			TokenURL:     cfg.Spotify.TokenURL,
		}, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("configure spotify client")
		}
		logger.Info().Msg("spotify import enabled")
	} else {
		logger.Info().Msg("spotify credentials absent, using sample catalog")
	}
	importer := ingest.NewImporter(catalogStore, engine, spotify, bus, logger)

	var builder *embeddings.Builder
	if cfg.Embeddings.Enabled() {
		builder = embeddings.NewBuilder(embeddings.BuilderConfig{
			APIKey:  cfg.Embeddings.APIKey,
			BaseURL: cfg.Embeddings.BaseURL,
			Model:   cfg.Embeddings.Model,
		}, embedStore, catalogStore, logger)
		logger.Info().Str("model", cfg.Embeddings.Model).Msg("embeddings enabled")
	}

	handlers := api.NewHandlers(api.Deps{
		Users:            userStore,
		Tokens:           tokens,
		Catalog:          catalogStore,
		History:          historyStore,
		Ratings:          ratingStore,
		Downloads:        downloadStore,
		Playlists:        playlistStore,
		Notifications:    notifyStore,
		Digests:          notify.NewDigestBuilder(historyStore, catalogStore),
		Engine:           engine,
		Importer:         importer,
		EmbeddingBuilder: builder,
		Logger:           logger,
	})
	router := api.NewRouter(handlers, tokens, api.MiddlewareConfig{
		AllowedOrigins: cfg.Security.AllowedOrigins,
		RateLimit:      cfg.Security.RateLimit,
		RateWindow:     cfg.Security.RateWindow,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Supervisor tree: HTTP on the api layer, background jobs on the
	// jobs layer so a crashing job never takes the API down.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddJobService(notify.NewSubscriber(bus, notifyStore, logger))
	if cfg.Ingest.Enabled {
		tree.AddJobService(ingest.NewScheduler(importer, cfg.Ingest.Interval, cfg.Ingest.SeedUser, logger))
		logger.Info().Dur("interval", cfg.Ingest.Interval).Msg("scheduled ingest enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited")
		os.Exit(1)
	}
	logger.Info().Msg("shutdown complete")
}

// openDatabase opens the embedded Badger store. An empty path selects
// in-memory mode for demos and tests.
func openDatabase(cfg *config.Config) (*badger.DB, error) {
	var opts badger.Options
	if cfg.Database.Path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Database.Path)
	}
	return badger.Open(opts.WithLogger(nil))
}
