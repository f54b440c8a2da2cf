// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", ttl)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.Issue("u1", "dana@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "dana@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := newTestManager(t, time.Hour)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Issue("u1", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour)
	other, err := NewManager("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	token, err := other.Issue("u1", "")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Error("empty secret accepted")
	}
}
