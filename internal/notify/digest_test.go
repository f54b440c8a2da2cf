// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package notify

import (
	"context"
	"testing"

	"github.com/tomtom215/auricle/internal/recommend"
)

type fakeHistory map[string][]string

func (f fakeHistory) RecentEpisodeIDs(ctx context.Context, userID string, max int) ([]string, error) {
	ids := f[userID]
	if len(ids) > max {
		ids = ids[:max]
	}
	return ids, nil
}

type fakeCatalog []recommend.CatalogEntry

func (f fakeCatalog) AllEpisodes(ctx context.Context) ([]recommend.CatalogEntry, error) {
	return f, nil
}

func entry(podcastID, episodeID string, tags ...string) recommend.CatalogEntry {
	return recommend.CatalogEntry{
		PodcastID: podcastID,
		Episode:   recommend.Episode{ID: episodeID, Tags: tags},
	}
}

func TestDigestBuild(t *testing.T) {
	cat := fakeCatalog{
		entry("p1", "e1", "ai"),
		entry("p1", "e2", "ai"),
		entry("p1", "e3", "ai"),
		entry("p1", "e4", "ai"),
		entry("p2", "e5", "garden"),
		entry("p3", "e6", "ai", "tech"),
	}
	hist := fakeHistory{"u1": {"e1"}}
	d := NewDigestBuilder(hist, cat)

	digest, err := d.Build(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(digest.Tags) != 1 || digest.Tags[0] != "ai" {
		t.Errorf("tags = %v, want [ai]", digest.Tags)
	}
	for _, item := range digest.Items {
		if item.Entry.Episode.ID == "e1" {
			t.Error("digest suggests an already played episode")
		}
		if item.Tag != "ai" {
			t.Errorf("item tag = %q", item.Tag)
		}
		if item.Entry.Episode.ID == "e5" {
			t.Error("untagged-interest episode included")
		}
	}
	// Max 2 per podcast: p1 has 3 unplayed ai episodes.
	perPodcast := map[string]int{}
	for _, item := range digest.Items {
		perPodcast[item.Entry.PodcastID]++
	}
	if perPodcast["p1"] > 2 {
		t.Errorf("p1 items = %d, want at most 2", perPodcast["p1"])
	}
}

func TestDigestEmptyHistory(t *testing.T) {
	d := NewDigestBuilder(fakeHistory{}, fakeCatalog{entry("p1", "e1", "ai")})
	digest, err := d.Build(context.Background(), "cold")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(digest.Tags) != 0 || len(digest.Items) != 0 {
		t.Errorf("cold digest not empty: %+v", digest)
	}
}

func TestTopPlayedTagsOrdering(t *testing.T) {
	entries := []recommend.CatalogEntry{
		entry("p1", "e1", "ai"),
		entry("p1", "e2", "ai", "tech"),
		entry("p1", "e3", "news"),
	}
	got := topPlayedTags([]string{"e1", "e2", "e3"}, entries, 2)
	if len(got) != 2 || got[0] != "ai" {
		t.Errorf("topPlayedTags = %v, want ai first", got)
	}
}
