// Auricle - Podcast Discovery and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/auricle

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/auricle/internal/auth"
	"github.com/tomtom215/auricle/internal/catalog"
	"github.com/tomtom215/auricle/internal/downloads"
	"github.com/tomtom215/auricle/internal/embeddings"
	"github.com/tomtom215/auricle/internal/history"
	"github.com/tomtom215/auricle/internal/ingest"
	"github.com/tomtom215/auricle/internal/logging"
	"github.com/tomtom215/auricle/internal/notify"
	"github.com/tomtom215/auricle/internal/playlists"
	"github.com/tomtom215/auricle/internal/ratings"
	"github.com/tomtom215/auricle/internal/recommend"
	"github.com/tomtom215/auricle/internal/users"
)

// envelope mirrors APIResponse with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type testApp struct {
	t       *testing.T
	handler http.Handler
	catalog *catalog.Store
	history *history.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewTestLogger(io.Discard)
	tokens, err := auth.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}

	catalogStore := catalog.NewStore(db)
	historyStore := history.NewStore(db)
	ratingStore := ratings.NewStore(db)
	embedStore := embeddings.NewStore(db)

	engine, err := recommend.NewEngine(nil, recommend.Providers{
		Catalog:    catalogStore,
		History:    historyStore,
		Ratings:    ratingStore,
		Embeddings: embedStore,
	}, logger)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	handlers := NewHandlers(Deps{
		Users:         users.NewStore(db, bcrypt.MinCost),
		Tokens:        tokens,
		Catalog:       catalogStore,
		History:       historyStore,
		Ratings:       ratingStore,
		Downloads:     downloads.NewStore(db),
		Playlists:     playlists.NewStore(db),
		Notifications: notify.NewStore(db),
		Digests:       notify.NewDigestBuilder(historyStore, catalogStore),
		Engine:        engine,
		Importer:      ingest.NewImporter(catalogStore, engine, nil, nil, logger),
		Logger:        logger,
	})

	router := NewRouter(handlers, tokens, MiddlewareConfig{RateLimitDisabled: true})
	return &testApp{t: t, handler: router, catalog: catalogStore, history: historyStore}
}

// do performs one request against the router.
func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded response body into an envelope.
func (a *testApp) decode(rec *httptest.ResponseRecorder) envelope {
	a.t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

// register creates an account and returns its token and user ID.
func (a *testApp) register(email string) (token, userID string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Name:     "Test Listener",
		Email:    email,
		Password: "listening123",
	})
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp authResponse
	env := a.decode(rec)
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		a.t.Fatalf("decode auth response: %v", err)
	}
	return resp.Token, resp.User.ID
}

// importSamples loads the bundled catalog through the admin endpoint.
func (a *testApp) importSamples(token string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/admin/import", token, nil)
	if rec.Code != http.StatusOK {
		a.t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}
}
