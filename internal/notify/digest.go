// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/auricle/internal/recommend"
)

// DigestItem is one suggested episode in a digest, with the interest
// tag that selected it.
type DigestItem struct {
	Entry recommend.CatalogEntry `json:"entry"`
	Tag   string                 `json:"tag"`
}

// Digest summarizes what a user might want to hear next, derived from
// the tags of their recent plays.
type Digest struct {
	UserID string       `json:"user_id"`
	Tags   []string     `json:"tags"`
	Items  []DigestItem `json:"items"`
}

// HistorySource supplies recent plays. Satisfied by history.Store.
type HistorySource interface {
	RecentEpisodeIDs(ctx context.Context, userID string, max int) ([]string, error)
}

// DigestBuilder assembles digests from history and catalog.
type DigestBuilder struct {
	history HistorySource
	catalog recommend.CatalogProvider
}

// NewDigestBuilder wires a digest builder.
func NewDigestBuilder(history HistorySource, catalog recommend.CatalogProvider) *DigestBuilder {
	return &DigestBuilder{history: history, catalog: catalog}
}

// Build derives the user's digest: the top 3 tags of their last 10
// distinct plays, and for each podcast its 2 newest unplayed episodes
// carrying one of those tags, capped at 10 items.
func (d *DigestBuilder) Build(ctx context.Context, userID string) (Digest, error) {
	recent, err := d.history.RecentEpisodeIDs(ctx, userID, 10)
	if err != nil {
		return Digest{}, fmt.Errorf("recent plays for %s: %w", userID, err)
	}
	entries, err := d.catalog.AllEpisodes(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("load catalog: %w", err)
	}

	played := make(map[string]struct{}, len(recent))
	for _, id := range recent {
		played[id] = struct{}{}
	}

	tags := topPlayedTags(recent, entries, 3)
	digest := Digest{UserID: userID, Tags: tags}
	if len(tags) == 0 {
		return digest, nil
	}
	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}

	perPodcast := make(map[string]int)
	for i := len(entries) - 1; i >= 0 && len(digest.Items) < 10; i-- {
		entry := entries[i]
		if _, ok := played[entry.Episode.ID]; ok {
			continue
		}
		if perPodcast[entry.PodcastID] >= 2 {
			continue
		}
		tag, ok := firstMatchingTag(entry.Episode, wanted)
		if !ok {
			continue
		}
		perPodcast[entry.PodcastID]++
		digest.Items = append(digest.Items, DigestItem{Entry: entry, Tag: tag})
	}
	return digest, nil
}

// topPlayedTags counts the tags of recently played episodes and
// returns the max most frequent, most frequent first.
func topPlayedTags(recentIDs []string, entries []recommend.CatalogEntry, max int) []string {
	index := make(map[string]recommend.CatalogEntry, len(entries))
	for _, entry := range entries {
		index[entry.Episode.ID] = entry
	}
	counts := make(map[string]int)
	var order []string
	for _, id := range recentIDs {
		entry, ok := index[id]
		if !ok {
			continue
		}
		for _, tag := range entry.Episode.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > max {
		order = order[:max]
	}
	return order
}

func firstMatchingTag(ep recommend.Episode, wanted map[string]struct{}) (string, bool) {
	for _, tag := range ep.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if _, ok := wanted[tag]; ok {
			return tag, true
		}
	}
	return "", false
}
