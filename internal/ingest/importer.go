// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auricle/internal/catalog"
	"github.com/tomtom215/auricle/internal/events"
	"github.com/tomtom215/auricle/internal/recommend"
)

// TagProvider supplies the interest tags that steer a catalog import.
// Satisfied by recommend.Engine.
type TagProvider interface {
	TopUserTags(ctx context.Context, userID string, max int) ([]string, error)
}

// Importer pulls podcasts into the catalog, steered by a user's top
// tags. With a Spotify client it imports live data; without one it
// loads the bundled samples. Each new episode is announced on the
// event bus.
type Importer struct {
	catalog   *catalog.Store
	tags      TagProvider
	spotify   *SpotifyClient
	publisher message.Publisher
	logger    zerolog.Logger
	now       func() time.Time

	showsPerTag     int
	episodesPerShow int
}

// NewImporter creates an importer. spotify may be nil; publisher may
// be nil to skip event publication.
func NewImporter(cat *catalog.Store, tags TagProvider, spotify *SpotifyClient, publisher message.Publisher, logger zerolog.Logger) *Importer {
	return &Importer{
		catalog:         cat,
		tags:            tags,
		spotify:         spotify,
		publisher:       publisher,
		logger:          logger.With().Str("component", "ingest").Logger(),
		now:             time.Now,
		showsPerTag:     2,
		episodesPerShow: 5,
	}
}

// Run imports podcasts for the given user's interests and returns the
// number of newly added episodes.
func (im *Importer) Run(ctx context.Context, userID string) (int, error) {
	if im.spotify == nil {
		return im.importSamples(ctx)
	}
	return im.importFromSpotify(ctx, im.seedTags(ctx, userID))
}

// seedTags picks the tags that steer this import: the user's top tags,
// falling back to defaults for cold users.
func (im *Importer) seedTags(ctx context.Context, userID string) []string {
	if im.tags == nil || userID == "" {
		return defaultSeedTags
	}
	tags, err := im.tags.TopUserTags(ctx, userID, 3)
	if err != nil {
		im.logger.Warn().Err(err).Str("user_id", userID).Msg("top tags unavailable, using defaults")
		return defaultSeedTags
	}
	if len(tags) == 0 {
		return defaultSeedTags
	}
	return tags
}

// importSamples loads the bundled catalog. Already-present episodes
// are not re-announced.
func (im *Importer) importSamples(ctx context.Context) (int, error) {
	imported := 0
	for _, p := range sampleCatalog(im.now()) {
		added, err := im.upsertPodcast(ctx, p)
		if err != nil {
			return imported, err
		}
		imported += added
	}
	im.logger.Info().Int("imported", imported).Msg("sample catalog loaded")
	return imported, nil
}

func (im *Importer) importFromSpotify(ctx context.Context, tags []string) (int, error) {
	imported := 0
	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		shows, err := im.spotify.SearchShows(ctx, tag, im.showsPerTag)
		if err != nil {
			return imported, fmt.Errorf("search shows for %q: %w", tag, err)
		}
		for _, show := range shows {
			episodes, err := im.spotify.ShowEpisodes(ctx, show.ID, im.episodesPerShow)
			if err != nil {
				im.logger.Warn().Err(err).Str("show_id", show.ID).Msg("episode fetch failed, skipping show")
				continue
			}
			p := show.toPodcast(tag)
			for _, ep := range episodes {
				p.Episodes = append(p.Episodes, ep.toEpisode(tag))
			}
			added, err := im.upsertPodcast(ctx, p)
			if err != nil {
				return imported, err
			}
			imported += added
		}
	}
	im.logger.Info().Int("imported", imported).Strs("tags", tags).Msg("spotify import finished")
	return imported, nil
}

// upsertPodcast merges a podcast into the catalog and publishes an
// event for each episode that was not previously present. Returns the
// count of new episodes.
func (im *Importer) upsertPodcast(ctx context.Context, p recommend.Podcast) (int, error) {
	existing := make(map[string]struct{})
	if current, err := im.catalog.Podcast(ctx, p.ID); err == nil {
		for _, ep := range current.Episodes {
			existing[ep.ID] = struct{}{}
		}
	}

	episodes := p.Episodes
	p.Episodes = nil
	if err := im.catalog.UpsertPodcast(ctx, p); err != nil {
		return 0, fmt.Errorf("upsert podcast %s: %w", p.ID, err)
	}
	if len(episodes) > 0 {
		if err := im.catalog.UpsertEpisodes(ctx, p.ID, episodes); err != nil {
			return 0, fmt.Errorf("upsert episodes for %s: %w", p.ID, err)
		}
	}

	added := 0
	for _, ep := range episodes {
		if _, ok := existing[ep.ID]; ok {
			continue
		}
		added++
		im.publishImported(p, ep)
	}
	return added, nil
}

func (im *Importer) publishImported(p recommend.Podcast, ep recommend.Episode) {
	if im.publisher == nil {
		return
	}
	msg, err := events.NewEpisodeImportedMessage(events.EpisodeImported{
		PodcastID:    p.ID,
		PodcastTitle: p.Title,
		EpisodeID:    ep.ID,
		EpisodeTitle: ep.Title,
		Tags:         ep.Tags,
		ImportedAt:   im.now(),
	})
	if err != nil {
		im.logger.Error().Err(err).Str("episode_id", ep.ID).Msg("encode import event")
		return
	}
	if err := im.publisher.Publish(events.TopicEpisodeImported, msg); err != nil {
		im.logger.Error().Err(err).Str("episode_id", ep.ID).Msg("publish import event")
	}
}
