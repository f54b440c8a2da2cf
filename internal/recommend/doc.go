// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package recommend implements the episode recommendation engine.
//
// The engine scores every episode in the catalog against a per-user
// listening profile built from play history. The final score is an
// additive blend of four signals:
//
//   - content similarity: Jaccard overlap between the user's top profile
//     terms and the episode's term set (tags + title + description tokens)
//   - rating boost: community average rating, scaled
//   - recency boost: tiered bonus for recently published episodes
//   - embedding boost: cosine similarity between user and episode vectors,
//     when both are available
//
// Profiles are rebuilt from history on every call; nothing is cached
// between calls, so recommendations always reflect the latest plays.
// All data access goes through the provider interfaces in types.go, which
// are implemented by the catalog, history, ratings, and embeddings
// packages.
//
// Missing data never fails a request: unknown episodes are skipped,
// absent signals contribute zero, and invalid limits fall back to
// defaults.
package recommend
