// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import "time"

// ratingBoost converts an aggregate rating into an additive boost:
// (average/5) * weight. Episodes with no ratings contribute nothing.
func ratingBoost(summary RatingSummary, weight float64) float64 {
	if summary.Count <= 0 {
		return 0
	}
	return sanitize(summary.Average / 5.0 * weight)
}

// recencyBoost returns a tiered bonus by publication age. Episodes with
// no publication date get no boost.
func recencyBoost(publishedAt, now time.Time, cfg *Config) float64 {
	if publishedAt.IsZero() {
		return 0
	}
	age := now.Sub(publishedAt)
	switch {
	case age < cfg.FreshAge:
		return cfg.FreshBoost
	case age < cfg.RecentAge:
		return cfg.RecentBoost
	default:
		return 0
	}
}

// embeddingBoost scales the cosine similarity of user and episode
// vectors. Either vector missing means no semantic signal.
func embeddingBoost(userVec, episodeVec []float64, weight float64) float64 {
	if len(userVec) == 0 || len(episodeVec) == 0 {
		return 0
	}
	return sanitize(Cosine(userVec, episodeVec) * weight)
}
