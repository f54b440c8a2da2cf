// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

// Package users handles account registration and credential checks.
// Passwords are hashed with bcrypt; hashes never leave this package's
// storage representation.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	userPrefix  = "user:id:"
	emailPrefix = "user:email:"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("users: not found")

	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("users: email already registered")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
)

// User is a registered account. PasswordHash is internal and excluded
// from JSON responses.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// stored is the on-disk representation, including the hash.
type stored struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store persists accounts in Badger.
type Store struct {
	db         *badger.DB
	bcryptCost int
	now        func() time.Time
}

// NewStore wraps an open Badger handle. A non-positive bcryptCost
// falls back to bcrypt.DefaultCost.
func NewStore(db *badger.DB, bcryptCost int) *Store {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Store{db: db, bcryptCost: bcryptCost, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a new account.
func (s *Store) Create(ctx context.Context, name, email, password string) (User, error) {
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return User{}, errors.New("users: name and email required")
	}
	if len(password) < 8 {
		return User{}, errors.New("users: password must be at least 8 characters")
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u := stored{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	data, err := json.Marshal(u)
	if err != nil {
		return User{}, fmt.Errorf("encode user: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(emailPrefix + email)); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set([]byte(userPrefix+u.ID), data); err != nil {
			return err
		}
		return txn.Set([]byte(emailPrefix+email), []byte(u.ID))
	})
	if err != nil {
		return User{}, err
	}
	return toUser(u), nil
}

// Get returns a user by ID.
func (s *Store) Get(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	var u stored
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		u, err = getStored(txn, id)
		return err
	})
	if err != nil {
		return User{}, err
	}
	return toUser(u), nil
}

// FindByEmail returns a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	u, err := s.findStoredByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	return toUser(u), nil
}

// Authenticate verifies email and password, returning the account on
// success. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials so callers cannot probe for accounts.
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.findStoredByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return toUser(u), nil
}

func (s *Store) findStoredByEmail(ctx context.Context, email string) (stored, error) {
	email = normalizeEmail(email)
	if err := ctx.Err(); err != nil {
		return stored{}, err
	}
	var u stored
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailPrefix + email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}
		u, err = getStored(txn, id)
		return err
	})
	return u, err
}

func getStored(txn *badger.Txn, id string) (stored, error) {
	item, err := txn.Get([]byte(userPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stored{}, ErrNotFound
	}
	if err != nil {
		return stored{}, err
	}
	var u stored
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &u)
	}); err != nil {
		return stored{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return u, nil
}

func toUser(u stored) User {
	return User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}
