// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package ingest grows the podcast catalog: from the Spotify API when
// credentials are configured, or from a bundled sample catalog when
// not. Every imported episode is announced on the event bus.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/auricle/internal/recommend"
)

// SpotifyConfig holds client-credentials API access.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
}

// SpotifyClient talks to the Spotify Web API with client-credentials
// auth. All calls run through a circuit breaker.
type SpotifyClient struct {
	cfg     SpotifyConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewSpotifyClient creates a client. Returns an error when credentials
// are missing; callers should fall back to the sample catalog instead.
func NewSpotifyClient(cfg SpotifyConfig, logger zerolog.Logger) (*SpotifyClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("ingest: spotify credentials required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.spotify.com/v1"
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = "https://accounts.spotify.com/api/token"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	logger = logger.With().Str("component", "spotify").Logger()

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "spotify-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &SpotifyClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		logger:  logger,
	}, nil
}

// Show is a Spotify show search hit.
type Show struct {
	ID          string
	Name        string
	Description string
	Publisher   string
	ImageURL    string
}

// ShowEpisode is one episode of a Spotify show.
type ShowEpisode struct {
	ID          string
	Name        string
	Description string
	ReleaseDate time.Time
	DurationSec int
	AudioURL    string
}

// token returns a cached access token, refreshing when expired.
func (c *SpotifyClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var decoded struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", errors.New("token endpoint returned empty token")
	}
	c.accessToken = decoded.AccessToken
	// Refresh one minute early.
	c.tokenExpiry = time.Now().Add(time.Duration(decoded.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}

// get performs an authorized GET through the circuit breaker.
func (c *SpotifyClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		token, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		u := c.cfg.BaseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("%s status %d: %s", path, resp.StatusCode, snippet)
		}
		return io.ReadAll(resp.Body)
	})
}

// SearchShows queries the show search endpoint.
func (c *SpotifyClient) SearchShows(ctx context.Context, query string, limit int) ([]Show, error) {
	if limit <= 0 {
		limit = 2
	}
	body, err := c.get(ctx, "/search", url.Values{
		"q":     {query},
		"type":  {"show"},
		"limit": {fmt.Sprintf("%d", limit)},
	})
	if err != nil {
		return nil, err
	}
	var decoded struct {
		Shows struct {
			Items []struct {
				ID          string `json:"id"`
				Name        string `json:"name"`
				Description string `json:"description"`
				Publisher   string `json:"publisher"`
				Images      []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"items"`
		} `json:"shows"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode show search: %w", err)
	}
	shows := make([]Show, 0, len(decoded.Shows.Items))
	for _, item := range decoded.Shows.Items {
		show := Show{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Publisher:   item.Publisher,
		}
		if len(item.Images) > 0 {
			show.ImageURL = item.Images[0].URL
		}
		shows = append(shows, show)
	}
	return shows, nil
}

// ShowEpisodes fetches a show's most recent episodes.
func (c *SpotifyClient) ShowEpisodes(ctx context.Context, showID string, limit int) ([]ShowEpisode, error) {
	if limit <= 0 {
		limit = 5
	}
	body, err := c.get(ctx, "/shows/"+showID+"/episodes", url.Values{
		"limit": {fmt.Sprintf("%d", limit)},
	})
	if err != nil {
		return nil, err
	}
	var decoded struct {
		Items []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			ReleaseDate string `json:"release_date"`
			DurationMS  int    `json:"duration_ms"`
			AudioURL    string `json:"audio_preview_url"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode show episodes: %w", err)
	}
	episodes := make([]ShowEpisode, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		ep := ShowEpisode{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			DurationSec: item.DurationMS / 1000,
			AudioURL:    item.AudioURL,
		}
		if t, err := time.Parse("2006-01-02", item.ReleaseDate); err == nil {
			ep.ReleaseDate = t
		}
		episodes = append(episodes, ep)
	}
	return episodes, nil
}

// toPodcast converts a show to a catalog podcast tagged with the
// search term that found it.
func (s Show) toPodcast(tag string) recommend.Podcast {
	return recommend.Podcast{
		ID:            "sp-" + s.ID,
		Title:         s.Name,
		Description:   s.Description,
		Publisher:     s.Publisher,
		Tags:          []string{tag},
		ImageURL:      s.ImageURL,
		SpotifyShowID: s.ID,
		Source:        "spotify",
	}
}

// toEpisode converts a show episode to a catalog episode.
func (e ShowEpisode) toEpisode(tag string) recommend.Episode {
	return recommend.Episode{
		ID:          "sp-" + e.ID,
		Title:       e.Name,
		Description: e.Description,
		Tags:        []string{tag},
		PublishedAt: e.ReleaseDate,
		DurationSec: e.DurationSec,
		AudioURL:    e.AudioURL,
		SpotifyID:   e.ID,
	}
}
