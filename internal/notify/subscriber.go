// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package notify

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/auricle/internal/events"
)

// Subscriber consumes episode-import events from the bus and records a
// notification for each. It implements suture.Service.
type Subscriber struct {
	bus    message.Subscriber
	store  *Store
	logger zerolog.Logger
}

// NewSubscriber creates a subscriber writing into store.
func NewSubscriber(bus message.Subscriber, store *Store, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		bus:    bus,
		store:  store,
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

// Serve consumes events until the context is canceled. Messages that
// fail to decode are acked and dropped; store failures nack so the bus
// can redeliver.
func (s *Subscriber) Serve(ctx context.Context) error {
	msgs, err := s.bus.Subscribe(ctx, events.TopicEpisodeImported)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ctx.Err()
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, msg *message.Message) {
	ev, err := events.DecodeEpisodeImported(msg)
	if err != nil {
		s.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("malformed import event dropped")
		msg.Ack()
		return
	}
	err = s.store.Add(ctx, Notification{
		PodcastID:    ev.PodcastID,
		PodcastTitle: ev.PodcastTitle,
		EpisodeID:    ev.EpisodeID,
		EpisodeTitle: ev.EpisodeTitle,
		Tags:         ev.Tags,
		CreatedAt:    ev.ImportedAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("episode_id", ev.EpisodeID).Msg("store notification")
		msg.Nack()
		return
	}
	msg.Ack()
}

// String identifies the service in supervisor logs.
func (s *Subscriber) String() string {
	return "notify-subscriber"
}
