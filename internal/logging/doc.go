// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package logging provides structured logging for Auricle built on
// zerolog.
//
// A process-wide logger is configured once at startup via Init and
// retrieved with Logger or With. Request-scoped loggers carry a
// request ID through context.Context; use Ctx to recover a logger that
// includes it.
//
// The slog adapter bridges libraries that speak log/slog (notably
// sutureslog) onto the same zerolog backend so all output shares one
// format and destination.
package logging
