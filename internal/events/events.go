// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package events defines the in-process message topics and payloads
// exchanged over the Watermill bus.
package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
)

// TopicEpisodeImported carries one EpisodeImported payload per episode
// added to the catalog by the importer.
const TopicEpisodeImported = "catalog.episode.imported"

// EpisodeImported announces a newly imported episode.
type EpisodeImported struct {
	PodcastID    string    `json:"podcast_id"`
	PodcastTitle string    `json:"podcast_title"`
	EpisodeID    string    `json:"episode_id"`
	EpisodeTitle string    `json:"episode_title"`
	Tags         []string  `json:"tags,omitempty"`
	ImportedAt   time.Time `json:"imported_at"`
}

// NewEpisodeImportedMessage encodes the payload as a Watermill message.
func NewEpisodeImportedMessage(ev EpisodeImported) (*message.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", TopicEpisodeImported, err)
	}
	return message.NewMessage(watermill.NewUUID(), payload), nil
}

// DecodeEpisodeImported decodes a message published on
// TopicEpisodeImported.
func DecodeEpisodeImported(msg *message.Message) (EpisodeImported, error) {
	var ev EpisodeImported
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return EpisodeImported{}, fmt.Errorf("decode %s event: %w", TopicEpisodeImported, err)
	}
	return ev, nil
}
