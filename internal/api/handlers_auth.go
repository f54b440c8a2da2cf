// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/auricle/internal/users"
)

// authResponse returns the account together with its access token.
type authResponse struct {
	User  users.User `json:"user"`
	Token string     `json:"token"`
}

// register creates an account and logs it in.
func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)

	user, err := h.deps.Users.Create(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		rw.Conflict("email already registered")
		return
	case err != nil:
		rw.StorageError(err)
		return
	}

	token, err := h.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		rw.InternalError("could not issue token")
		return
	}
	h.logger.Info().Str("user_id", user.ID).Msg("account registered")
	rw.Created(authResponse{User: user, Token: token})
}

// login verifies credentials and issues a token.
func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	rw := NewResponseWriter(w, r)

	user, err := h.deps.Users.Authenticate(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		rw.Unauthorized("invalid email or password")
		return
	case err != nil:
		rw.StorageError(err)
		return
	}

	token, err := h.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		rw.InternalError("could not issue token")
		return
	}
	rw.Success(authResponse{User: user, Token: token})
}

// me returns the authenticated account.
func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	user, err := h.deps.Users.Get(r.Context(), userID)
	if errors.Is(err, users.ErrNotFound) {
		rw.NotFound("account no longer exists")
		return
	}
	if err != nil {
		rw.StorageError(err)
		return
	}
	rw.Success(user)
}
