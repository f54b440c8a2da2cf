// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package ingest

import (
	"time"

	"github.com/tomtom215/auricle/internal/recommend"
)

// sampleCatalog returns the bundled demo catalog used when no Spotify
// credentials are configured. Publication dates are relative to now so
// recency boosts stay meaningful.
func sampleCatalog(now time.Time) []recommend.Podcast {
	return []recommend.Podcast{
		{
			ID:          "sample-syntax-stream",
			Title:       "Syntax Stream",
			Description: "Weekly conversations about software engineering, languages, and tooling.",
			Publisher:   "Auricle Samples",
			Tags:        []string{"technology", "programming"},
			Source:      "sample",
			Episodes: []recommend.Episode{
				{
					ID:          "sample-ss-1",
					Title:       "The State of Systems Programming",
					Description: "Memory safety, concurrency, and the languages pushing both forward.",
					Tags:        []string{"technology", "programming"},
					PublishedAt: now.AddDate(0, 0, -7),
					DurationSec: 3120,
				},
				{
					ID:          "sample-ss-2",
					Title:       "Debugging War Stories",
					Description: "Engineers recount the bugs that took weeks to find.",
					Tags:        []string{"technology", "programming"},
					PublishedAt: now.AddDate(0, 0, -45),
					DurationSec: 2700,
				},
				{
					ID:          "sample-ss-3",
					Title:       "Machine Learning for Skeptics",
					Description: "Where models help day-to-day engineering and where they get in the way.",
					Tags:        []string{"technology", "ai"},
					PublishedAt: now.AddDate(0, 0, -120),
					DurationSec: 3480,
				},
			},
		},
		{
			ID:          "sample-daily-ledger",
			Title:       "The Daily Ledger",
			Description: "Business and economics news explained in plain language.",
			Publisher:   "Auricle Samples",
			Tags:        []string{"news", "business"},
			Source:      "sample",
			Episodes: []recommend.Episode{
				{
					ID:          "sample-dl-1",
					Title:       "Markets This Morning",
					Description: "A quick read on overnight moves and what to watch today.",
					Tags:        []string{"news", "business"},
					PublishedAt: now.AddDate(0, 0, -1),
					DurationSec: 900,
				},
				{
					ID:          "sample-dl-2",
					Title:       "The Chip Supply Chain",
					Description: "How semiconductors travel the world before reaching your laptop.",
					Tags:        []string{"news", "technology"},
					PublishedAt: now.AddDate(0, 0, -60),
					DurationSec: 1860,
				},
			},
		},
		{
			ID:          "sample-midnight-archive",
			Title:       "Midnight Archive",
			Description: "True stories from history's strangest corners.",
			Publisher:   "Auricle Samples",
			Tags:        []string{"history", "culture"},
			Source:      "sample",
			Episodes: []recommend.Episode{
				{
					ID:          "sample-ma-1",
					Title:       "The Library That Vanished",
					Description: "Tracing what actually happened to the Library of Alexandria.",
					Tags:        []string{"history", "culture"},
					PublishedAt: now.AddDate(0, 0, -15),
					DurationSec: 2520,
				},
				{
					ID:          "sample-ma-2",
					Title:       "Radio Pirates of the North Sea",
					Description: "Offshore broadcasters and the governments that chased them.",
					Tags:        []string{"history", "culture"},
					PublishedAt: now.AddDate(0, 0, -200),
					DurationSec: 2340,
				},
			},
		},
	}
}

// defaultSeedTags are used when a user has no listening profile yet.
var defaultSeedTags = []string{"technology", "news", "culture"}
