// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler runs periodic catalog imports as a supervised service.
// It implements suture.Service.
type Scheduler struct {
	importer *Importer
	interval time.Duration
	seedUser string
	logger   zerolog.Logger
}

// NewScheduler creates a scheduler importing every interval, steered
// by seedUser's interests.
func NewScheduler(importer *Importer, interval time.Duration, seedUser string, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &Scheduler{
		importer: importer,
		interval: interval,
		seedUser: seedUser,
		logger:   logger.With().Str("component", "ingest-scheduler").Logger(),
	}
}

// Serve runs one import immediately, then one per interval, until the
// context is canceled.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.runOnce(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	imported, err := s.importer.Run(ctx, s.seedUser)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled import failed")
		return
	}
	s.logger.Info().
		Int("imported", imported).
		Dur("elapsed", time.Since(start)).
		Msg("scheduled import complete")
}

// String identifies the service in supervisor logs.
func (s *Scheduler) String() string {
	return "ingest-scheduler"
}
