// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import (
	"sort"
	"strings"
)

// FilterItems returns the items for which keep reports true, preserving
// order. The input slice is not modified.
func FilterItems(items []RecommendationItem, keep func(RecommendationItem) bool) []RecommendationItem {
	if keep == nil {
		out := make([]RecommendationItem, len(items))
		copy(out, items)
		return out
	}
	out := make([]RecommendationItem, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// ApplyInterestBonus adds a capped bonus per declared-interest tag
// match and re-sorts by the adjusted score, keeping the incoming order
// for ties. Interests are matched case-insensitively against episode
// tags. The input slice is not modified.
func ApplyInterestBonus(items []RecommendationItem, interests []string, cfg *Config) []RecommendationItem {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := make([]RecommendationItem, len(items))
	copy(out, items)
	if len(interests) == 0 {
		return out
	}

	wanted := make(map[string]struct{}, len(interests))
	for _, in := range interests {
		in = strings.ToLower(strings.TrimSpace(in))
		if in != "" {
			wanted[in] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return out
	}

	for i := range out {
		matches := 0
		for _, tag := range out[i].Tags {
			if _, ok := wanted[strings.ToLower(strings.TrimSpace(tag))]; ok {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		bonus := float64(matches) * cfg.InterestBonusPerMatch
		if bonus > cfg.InterestBonusCap {
			bonus = cfg.InterestBonusCap
		}
		out[i].Score = roundScore(sanitize(out[i].Score + bonus))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
