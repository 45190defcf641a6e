package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/adapter"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeServer answers the endpoints the client calls with one customer and
// empty collections for everything else.
type fakeServer struct {
	logins atomic.Int32
	pulls  atomic.Int32

	mu              sync.Mutex
	idempotencyKeys []string
}

func (f *fakeServer) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.idempotencyKeys...)
}

func (f *fakeServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
		})
		r.Post("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			f.logins.Add(1)
			utils.WriteJSON(w, models.AuthResponse{
				Succeeded: true,
				Token:     "token",
				ExpiresAt: time.Now().Add(time.Hour).UTC(),
			}, http.StatusOK)
		})
		r.Get("/{resource}", func(w http.ResponseWriter, r *http.Request) {
			f.pulls.Add(1)
			if chi.URLParam(r, "resource") == "customers" {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"data":[{"id":"c-1","createdAt":"2026-03-01T09:00:00Z","updatedAt":"2026-03-01T09:00:00Z","isArchived":false,"name":"Acme"}],"totalCount":1}`))
				return
			}
			utils.WriteJSON(w, models.SyncEnvelope[models.Customer]{Data: []models.Customer{}}, http.StatusOK)
		})
		r.Post("/{resource}", func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.idempotencyKeys = append(f.idempotencyKeys, r.Header.Get("Idempotency-Key"))
			f.mu.Unlock()

			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"id":"srv-1","createdAt":"2026-03-02T08:00:00Z","updatedAt":"2026-03-02T08:00:00Z","isArchived":false,"name":%q}`,
				gjson.GetBytes(body, "name").String())
		})
		r.Put("/{resource}/{id}", func(w http.ResponseWriter, r *http.Request) {
			utils.WriteJSON(w, models.ConflictDescriptor{
				EntityID:        chi.URLParam(r, "id"),
				EntityType:      models.Jobs,
				Message:         "record was modified on the server",
				ServerUpdatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				ClientUpdatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			}, http.StatusConflict)
		})
		r.Delete("/{resource}/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func newTestApp(t *testing.T, auth config.ClientAuth) (*App, *fakeServer) {
	t.Helper()

	fake := &fakeServer{}
	srv := httptest.NewServer(fake.routes())
	t.Cleanup(srv.Close)

	return openTestApp(t, srv.URL, t.TempDir(), auth), fake
}

// offlineURL returns the address of a server that is no longer listening.
func offlineURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

func openTestApp(t *testing.T, serverURL, dir string, auth config.ClientAuth) *App {
	t.Helper()

	cfg := &config.ClientConfig{
		Adapter: config.ClientAdapter{
			BaseURL:        serverURL + "/api",
			RequestTimeout: 2 * time.Second,
			RetryBaseDelay: time.Millisecond,
			MaxAttempts:    1,
			ConnectTimeout: time.Second,
		},
		Storage: config.ClientStorage{
			LocalDSN:  filepath.Join(dir, "records.db"),
			StatePath: filepath.Join(dir, "state.db"),
		},
		Workers: config.ClientWorkers{QueueMaxRetries: 3},
		Auth:    auth,
	}

	app, err := NewApp(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	return app
}

var testAuth = config.ClientAuth{Login: "tech", Password: "s3cret-pass"}

func TestApp_SyncAll(t *testing.T) {
	app, fake := newTestApp(t, testAuth)

	result, err := app.Sync(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, result.Succeeded)
	assert.Equal(t, 1, result.EntitiesSynced)
	assert.Equal(t, int32(1), fake.logins.Load())
	assert.Equal(t, int32(len(models.SyncOrder)), fake.pulls.Load())

	stored, err := app.storages.Records.Get(context.Background(), models.Customers, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", stored.ID)
}

func TestApp_SyncOneEntity(t *testing.T) {
	app, fake := newTestApp(t, testAuth)

	for _, name := range []string{"Jobs", "material-lists"} {
		result, err := app.Sync(context.Background(), name)
		require.NoError(t, err)
		assert.True(t, result.Succeeded)
	}

	assert.Equal(t, int32(2), fake.pulls.Load())
	assert.Equal(t, int32(1), fake.logins.Load(), "the session is reused")
}

func TestApp_SyncUnknownEntity(t *testing.T) {
	app, _ := newTestApp(t, testAuth)

	_, err := app.Sync(context.Background(), "EstimateLines")

	assert.ErrorIs(t, err, service.ErrUnknownEntity)
}

func TestApp_MissingCredentials(t *testing.T) {
	app, fake := newTestApp(t, config.ClientAuth{})

	_, err := app.Sync(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	assert.ErrorIs(t, app.Run(context.Background()), ErrMissingCredentials)
	assert.Zero(t, fake.logins.Load())
}

func TestApp_RunSyncsOnceAndStopsWithContext(t *testing.T) {
	app, fake := newTestApp(t, testAuth)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Run(ctx))
	assert.Equal(t, int32(len(models.SyncOrder)), fake.pulls.Load())
}

func TestApp_PingAndPending(t *testing.T) {
	app, _ := newTestApp(t, testAuth)

	report := app.Ping(context.Background())
	assert.True(t, report.OK, report.Message)
	assert.Equal(t, http.StatusOK, report.StatusCode)

	assert.Empty(t, app.Pending())
}

// ─────────────────────────────────────────────
// writes
// ─────────────────────────────────────────────

func TestApp_CreateOnline(t *testing.T) {
	app, fake := newTestApp(t, testAuth)
	ctx := context.Background()

	stored, err := app.Create(ctx, "customers", json.RawMessage(`{"name":"Acme"}`))
	require.NoError(t, err)

	assert.Equal(t, "srv-1", stored.ID)
	assert.Empty(t, app.Pending())
	require.Len(t, fake.keys(), 1)
	assert.NotEmpty(t, fake.keys()[0])

	local, err := app.storages.Records.Get(ctx, models.Customers, "srv-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", gjson.GetBytes(local.Payload, "name").String())
}

func TestApp_OfflineWritesAreQueuedAndReplayed(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	offline := openTestApp(t, offlineURL(t), dir, testAuth)

	_, err := offline.Create(ctx, "Customers", json.RawMessage(`{"name":"Acme"}`))
	require.ErrorIs(t, err, service.ErrQueuedOffline)
	require.ErrorIs(t, offline.Archive(ctx, "jobs", "j-7"), service.ErrQueuedOffline, "a write without a body is queued too")

	pending := offline.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, http.MethodPost, pending[0].HTTPMethod)
	assert.Equal(t, "customers", pending[0].Endpoint)
	assert.Equal(t, http.MethodDelete, pending[1].HTTPMethod)
	assert.Equal(t, "jobs/j-7", pending[1].Endpoint)
	require.NoError(t, offline.Close())

	fake := &fakeServer{}
	srv := httptest.NewServer(fake.routes())
	t.Cleanup(srv.Close)
	online := openTestApp(t, srv.URL, dir, testAuth)
	require.Len(t, online.Pending(), 2, "the queue survives a restart")

	result, err := online.Sync(ctx, "")
	require.NoError(t, err)
	assert.True(t, result.Succeeded)

	assert.Empty(t, online.Pending())
	assert.Equal(t, []string{pending[0].ID}, fake.keys(), "replay reuses the queued idempotency key")

	local, err := online.storages.Records.Get(ctx, models.Customers, "srv-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", gjson.GetBytes(local.Payload, "name").String())
}

func TestApp_ConflictIsNotQueued(t *testing.T) {
	app, _ := newTestApp(t, testAuth)

	_, err := app.Update(context.Background(), "jobs", "j-1", json.RawMessage(`{"id":"j-1","updatedAt":"2026-03-01T09:00:00Z"}`))

	var conflict *adapter.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "j-1", conflict.Descriptor.EntityID)
	assert.Empty(t, app.Pending())
}

func TestApp_WriteRejectsUnknownEntity(t *testing.T) {
	app, fake := newTestApp(t, testAuth)

	_, err := app.Create(context.Background(), "EstimateLines", json.RawMessage(`{}`))

	assert.ErrorIs(t, err, service.ErrUnknownEntity)
	assert.Empty(t, fake.keys())
	assert.Zero(t, fake.logins.Load())
}

func TestApp_CloseTwice(t *testing.T) {
	app, _ := newTestApp(t, testAuth)

	require.NoError(t, app.Close())
	assert.NoError(t, app.Close())
}
