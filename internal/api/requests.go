// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type recordPlayRequest struct {
	EpisodeID string    `json:"episode_id" validate:"required"`
	PlayedAt  time.Time `json:"played_at"`
}

type setPositionRequest struct {
	PositionSec float64 `json:"position_sec" validate:"gte=0"`
}

type rateRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}

type reviewRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type createPlaylistRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type renamePlaylistRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type playlistEpisodeRequest struct {
	EpisodeID string `json:"episode_id" validate:"required"`
}

type episodeBatchRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
}

// fieldError is one validation failure in an error response.
type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	rw := NewResponseWriter(w, r)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		rw.BadRequest("invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]fieldError, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			rw.ValidationError("request validation failed", details)
		} else {
			rw.BadRequest("request validation failed")
		}
		return false
	}
	return true
}
