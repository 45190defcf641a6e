// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransport(t *testing.T, serverURL string) *HTTPTransport {
	t.Helper()

	adapterCfg := config.ClientAdapter{
		BaseURL:        serverURL + "/api",
		RequestTimeout: 2 * time.Second,
		RetryBaseDelay: time.Millisecond,
		MaxAttempts:    3,
		HealthPath:     "health",
		ConnectTimeout: 200 * time.Millisecond,
	}
	tr, err := NewHTTPTransport(adapterCfg, config.ClientApp{HashKey: "testhashkey"}, logger.Nop())
	require.NoError(t, err)
	return tr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ── Construction ────────────────────────────────────────────────────────────

func TestNewHTTPTransport_InvalidBaseURL(t *testing.T) {
	_, err := NewHTTPTransport(config.ClientAdapter{BaseURL: ""}, config.ClientApp{}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidBaseURL)
}

func TestNormalizeBaseURL(t *testing.T) {
	got, err := normalizeBaseURL("localhost:8080/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", got)
}

// ── Requests ────────────────────────────────────────────────────────────────

func TestGet_SendsBearerAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "2026-03-01T10:00:00Z", r.URL.Query().Get("since"))

		writeJSON(w, http.StatusOK, models.SyncEnvelope[models.Customer]{
			Data:       []models.Customer{{RecordMeta: models.RecordMeta{ID: "c-1"}}},
			TotalCount: 1,
		})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	tr.session.set("tok-1", time.Time{})

	var env models.SyncEnvelope[models.Customer]
	err := tr.Get(context.Background(), "customers", url.Values{"since": {"2026-03-01T10:00:00Z"}}, &env)

	require.NoError(t, err)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "c-1", env.Data[0].ID)
}

func TestPostUnauthenticated_OmitsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	tr.session.set("tok-1", time.Time{})

	require.NoError(t, tr.PostUnauthenticated(context.Background(), "auth/register", models.LoginRequest{Login: "a"}, nil))
}

// ── 401 refresh ─────────────────────────────────────────────────────────────

func TestUnauthorized_RefreshesOnceAndReplays(t *testing.T) {
	var refreshes, calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			refreshes.Add(1)
			assert.Equal(t, "Bearer expired", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, models.AuthResponse{Succeeded: true, Token: "fresh", ExpiresAt: time.Now().Add(time.Hour)})
		case "/api/jobs":
			calls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Message: "token expired"})
				return
			}
			writeJSON(w, http.StatusOK, models.SyncEnvelope[models.Job]{})
		}
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	tr.session.set("expired", time.Now().Add(-time.Minute))

	var env models.SyncEnvelope[models.Job]
	require.NoError(t, tr.Get(context.Background(), "jobs", nil, &env))

	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "fresh", tr.session.Token())
}

func TestUnauthorized_RefreshFailsSurfacesOriginal401(t *testing.T) {
	var refreshes, calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/refresh":
			refreshes.Add(1)
			writeJSON(w, http.StatusUnauthorized, models.AuthResponse{Message: "refresh window passed"})
		default:
			calls.Add(1)
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Message: "token expired"})
		}
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	tr.session.set("expired", time.Time{})

	err := tr.Get(context.Background(), "jobs", nil, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "token expired")
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(1), calls.Load())
}

func TestUnauthorized_SkipAuthDoesNotRefresh(t *testing.T) {
	var refreshes atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			refreshes.Add(1)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	tr.session.set("tok", time.Time{})

	err := tr.PostUnauthenticated(context.Background(), "auth/login", models.LoginRequest{}, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, refreshes.Load())
}

// ── Transient retry ─────────────────────────────────────────────────────────

func TestTransient503_StopsAtCeiling(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// a 4th attempt would succeed
		if calls.Add(1) > 3 {
			writeJSON(w, http.StatusOK, models.SyncEnvelope[models.Customer]{})
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	err := tr.Get(context.Background(), "customers", nil, nil)

	var transient *TransientError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, 3, transient.Attempts)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestTransient_BodyResentEveryAttempt(t *testing.T) {
	var (
		calls  atomic.Int32
		bodies = make(chan string, 3)
	)
	hasher := utils.NewHasher("testhashkey")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies <- string(body)
		assert.True(t, hasher.Verify(body, r.Header.Get(utils.HashHeader)))

		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": "c-9"})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)

	var created map[string]string
	err := tr.Post(context.Background(), "customers", map[string]string{"name": "Acme"}, &created)
	require.NoError(t, err)
	assert.Equal(t, "c-9", created["id"])

	close(bodies)
	for body := range bodies {
		assert.JSONEq(t, `{"name":"Acme"}`, body)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestNonTransientStatus_NotRetried(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "name is required"})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	err := tr.Post(context.Background(), "customers", map[string]string{}, nil)

	require.ErrorIs(t, err, ErrBadRequest)
	assert.Contains(t, err.Error(), "name is required")
	assert.False(t, IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestConnectionRefused_IsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	tr := newTestTransport(t, addr)
	err := tr.Delete(context.Background(), "jobs/1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.True(t, IsTransient(err))
}

func TestCanceledContext_NotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := newTestTransport(t, srv.URL)
	err := tr.Get(ctx, "jobs", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTransient(err))
}

// ── Conflict ────────────────────────────────────────────────────────────────

func TestPut_ConflictDecodesDescriptor(t *testing.T) {
	server := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := server.Add(-time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		writeJSON(w, http.StatusConflict, models.ConflictDescriptor{
			EntityID:        "j-1",
			EntityType:      models.Jobs,
			Message:         "record was modified on the server",
			ServerUpdatedAt: server,
			ClientUpdatedAt: client,
		})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	err := tr.Put(context.Background(), "jobs/j-1", map[string]string{"id": "j-1"}, nil)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "j-1", conflict.Descriptor.EntityID)
	assert.True(t, conflict.Descriptor.ServerUpdatedAt.Equal(server))
	assert.True(t, conflict.Descriptor.ClientUpdatedAt.Equal(client))
	assert.False(t, IsTransient(err))
}

func TestConflictWithoutDescriptor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Message: "login already exists"})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	err := tr.PostUnauthenticated(context.Background(), "auth/register", models.LoginRequest{}, nil)

	var conflict *ConflictError
	assert.False(t, errors.As(err, &conflict))
	assert.ErrorIs(t, err, ErrConflict)
}

// ── Send ────────────────────────────────────────────────────────────────────

func TestSend_IdempotencyKeyAndPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "queue-1", r.Header.Get(IdempotencyKeyHeader))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"name":"Acme"}`, string(body))
		writeJSON(w, http.StatusCreated, map[string]string{"id": "c-1"})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)

	var created map[string]string
	require.NoError(t, tr.Send(context.Background(), "post", "customers", []byte(`{"name":"Acme"}`), "queue-1", &created))
	assert.Equal(t, "c-1", created["id"])
}

// ── Login ───────────────────────────────────────────────────────────────────

func TestLogin_StoresSession(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tech", req.Login)

		writeJSON(w, http.StatusOK, models.AuthResponse{Succeeded: true, Token: "tok", ExpiresAt: expires})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	require.False(t, tr.IsAuthenticated())

	require.NoError(t, tr.Login(context.Background(), "tech", "secret"))
	assert.True(t, tr.IsAuthenticated())
	assert.True(t, tr.session.ExpiresAt().Equal(expires))

	tr.Logout()
	assert.False(t, tr.IsAuthenticated())
}

func TestLogin_NotSucceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.AuthResponse{Succeeded: false, Message: "bad credentials"})
	}))
	defer srv.Close()

	tr := newTestTransport(t, srv.URL)
	err := tr.Login(context.Background(), "tech", "wrong")

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "bad credentials")
	assert.False(t, tr.IsAuthenticated())
}

// ── Connection test ─────────────────────────────────────────────────────────

func TestTestConnection(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		report := newTestTransport(t, srv.URL).TestConnection(context.Background())
		assert.True(t, report.OK)
		assert.Equal(t, http.StatusOK, report.StatusCode)
		assert.Contains(t, report.Message, "Connected")
	})

	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		report := newTestTransport(t, srv.URL).TestConnection(context.Background())
		assert.False(t, report.OK)
		assert.Equal(t, http.StatusServiceUnavailable, report.StatusCode)
		assert.Contains(t, report.Message, "503")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		report := newTestTransport(t, srv.URL).TestConnection(context.Background())
		assert.False(t, report.OK)
		assert.Contains(t, report.Message, "timed out")
	})
}
