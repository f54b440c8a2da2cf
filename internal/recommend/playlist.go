// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package recommend

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackPlaylistID identifies the "Latest Episodes" playlist returned
// when no dominant tags exist for a user.
const FallbackPlaylistID = "latest"

// AutoPlaylistPrefix prefixes the IDs of tag-derived playlists.
const AutoPlaylistPrefix = "auto-"

// RecommendedPlaylists synthesizes up to maxPlaylists playlists of up
// to perPlaylist episodes each, grouped around the user's dominant
// tags. Tags are ranked by 2*profileWeight + catalog occurrence count,
// so a user with no history still gets playlists ranked by catalog
// popularity. Only when no tag scores at all does the single "Latest
// Episodes" playlist of newest catalog episodes stand in. Non-positive
// limits fall back to the configured defaults.
func (e *Engine) RecommendedPlaylists(ctx context.Context, userID string, maxPlaylists, perPlaylist int) ([]Playlist, error) {
	if maxPlaylists <= 0 {
		maxPlaylists = e.cfg.DefaultMaxPlaylists
	}
	if perPlaylist <= 0 {
		perPlaylist = e.cfg.DefaultPlaylistSize
	}

	entries, index, err := e.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := e.buildProfile(ctx, userID, index)
	if err != nil {
		return nil, err
	}

	tags := dominantTags(profile, entries, maxPlaylists)
	if len(tags) == 0 {
		return []Playlist{e.latestEpisodesPlaylist(entries, perPlaylist)}, nil
	}

	topTerms := profile.TopTermSet(e.cfg.ProfileTerms)
	userVec := e.userVector(ctx, userID)
	now := e.now()

	playlists := make([]Playlist, 0, len(tags))
	for _, tag := range tags {
		var items []RecommendationItem
		for _, entry := range entries {
			if !hasTag(entry.Episode, tag) {
				continue
			}
			items = append(items, RecommendationItem{
				Episode:      entry.Episode,
				PodcastID:    entry.PodcastID,
				PodcastTitle: entry.PodcastTitle,
				Score:        roundScore(e.scoreEntry(ctx, entry, topTerms, userVec, now)),
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Score > items[j].Score
		})
		if len(items) > perPlaylist {
			items = items[:perPlaylist]
		}
		playlists = append(playlists, Playlist{
			ID:          AutoPlaylistPrefix + tag,
			Title:       capitalize(tag) + " Picks",
			Description: "Top episodes for " + tag,
			Episodes:    items,
		})
	}
	return playlists, nil
}

// dominantTags ranks candidate tags by 2*profileWeight + catalog
// occurrences and returns the top max. Ties keep discovery order:
// profile terms first, then catalog tags.
func dominantTags(profile *Profile, entries []CatalogEntry, max int) []string {
	scores := make(map[string]int)
	var order []string
	bump := func(tag string, delta int) {
		if tag == "" {
			return
		}
		if _, ok := scores[tag]; !ok {
			order = append(order, tag)
		}
		scores[tag] += delta
	}
	for _, term := range profile.Terms() {
		bump(term, 2*profile.Weight(term))
	}
	for _, entry := range entries {
		for _, tag := range entry.Episode.Tags {
			bump(strings.ToLower(strings.TrimSpace(tag)), 1)
		}
	}
	// Only terms that appear as actual episode tags can anchor a
	// playlist; pure title/description tokens are filtered out here.
	tagged := make(map[string]struct{})
	for _, entry := range entries {
		for _, tag := range entry.Episode.Tags {
			tagged[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
		}
	}
	candidates := order[:0]
	for _, tag := range order {
		if _, ok := tagged[tag]; ok {
			candidates = append(candidates, tag)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i]] > scores[candidates[j]]
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}

// latestEpisodesPlaylist builds the cold-start fallback: newest
// episodes first, undated episodes last.
func (e *Engine) latestEpisodesPlaylist(entries []CatalogEntry, perPlaylist int) Playlist {
	items := make([]RecommendationItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, RecommendationItem{
			Episode:      entry.Episode,
			PodcastID:    entry.PodcastID,
			PodcastTitle: entry.PodcastTitle,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if len(items) > perPlaylist {
		items = items[:perPlaylist]
	}
	return Playlist{
		ID:          FallbackPlaylistID,
		Title:       "Latest Episodes",
		Description: "Fresh releases across topics",
		Episodes:    items,
	}
}

func hasTag(ep Episode, tag string) bool {
	for _, t := range ep.Tags {
		if strings.ToLower(strings.TrimSpace(t)) == tag {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
