package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// GET /api/{resource}
// ─────────────────────────────────────────────

func TestListRecords_FullPull(t *testing.T) {
	h, mocks := newTestHandler(t)

	var gotEntity models.EntityType
	var gotSince *time.Time
	mocks.records.listFn = func(_ context.Context, entity models.EntityType, since *time.Time) (models.SyncEnvelope[json.RawMessage], error) {
		gotEntity, gotSince = entity, since
		return models.SyncEnvelope[json.RawMessage]{
			Data:       []json.RawMessage{json.RawMessage(`{"id":"m-1"}`)},
			TotalCount: 1,
		}, nil
	}

	rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/material-lists", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MaterialLists, gotEntity)
	assert.Nil(t, gotSince)
	assert.JSONEq(t, `{"data":[{"id":"m-1"}],"totalCount":1}`, rec.Body.String())
}

func TestListRecords_Delta(t *testing.T) {
	h, mocks := newTestHandler(t)

	var gotSince *time.Time
	mocks.records.listFn = func(_ context.Context, _ models.EntityType, since *time.Time) (models.SyncEnvelope[json.RawMessage], error) {
		gotSince = since
		return models.SyncEnvelope[json.RawMessage]{Data: []json.RawMessage{}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/jobs?since=2026-03-01T12%3A30%3A00.5%2B02%3A00", nil)
	rec := serve(h, authorized(req))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotSince)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 500_000_000, time.UTC), *gotSince)
	assert.Equal(t, time.UTC, gotSince.Location())
	assert.JSONEq(t, `{"data":[],"totalCount":0}`, rec.Body.String())
}

func TestListRecords_BadRequests(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "invalid since", path: "/api/jobs?since=yesterday", wantStatus: http.StatusBadRequest},
		{name: "unknown resource", path: "/api/widgets", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mocks := newTestHandler(t)
			mocks.records.listFn = func(context.Context, models.EntityType, *time.Time) (models.SyncEnvelope[json.RawMessage], error) {
				t.Fatal("service must not be called")
				return models.SyncEnvelope[json.RawMessage]{}, nil
			}

			rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, tt.path, nil)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, decodeErrorResponse(t, rec).Message)
		})
	}
}

func TestListRecords_ServerFaultHidesMessage(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.records.listFn = func(context.Context, models.EntityType, *time.Time) (models.SyncEnvelope[json.RawMessage], error) {
		return models.SyncEnvelope[json.RawMessage]{}, errors.Join(store.ErrExecutingQuery, errors.New("relation records does not exist"))
	}

	rec := serve(h, authorized(httptest.NewRequest(http.MethodGet, "/api/jobs", nil)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decodeErrorResponse(t, rec).Message)
}

// ─────────────────────────────────────────────
// POST /api/{resource}
// ─────────────────────────────────────────────

func TestCreateRecord_Created(t *testing.T) {
	h, mocks := newTestHandler(t)

	var got models.RecordWrite
	mocks.records.createFn = func(_ context.Context, write models.RecordWrite) (json.RawMessage, error) {
		got = write
		return json.RawMessage(`{"id":"c-1","name":"Acme"}`), nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"Acme"}`))
	req.Header.Set(idempotencyKeyHeader, "key-1")
	rec := serve(h, authorized(req))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"c-1","name":"Acme"}`, rec.Body.String())

	assert.Equal(t, models.Customers, got.EntityType)
	assert.Equal(t, "key-1", got.IdempotencyKey)
	assert.Empty(t, got.ID)
	assert.JSONEq(t, `{"name":"Acme"}`, string(got.Payload))
}

func TestCreateRecord_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, authorized(httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"name":`))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRecord_ValidationErrorIs400(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.records.createFn = func(context.Context, models.RecordWrite) (json.RawMessage, error) {
		return nil, service.ErrInvalidDataProvided
	}

	rec := serve(h, authorized(httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`[]`))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// PUT /api/{resource}/{id}
// ─────────────────────────────────────────────

func TestUpdateRecord_OK(t *testing.T) {
	h, mocks := newTestHandler(t)

	var got models.RecordWrite
	mocks.records.updateFn = func(_ context.Context, write models.RecordWrite) (json.RawMessage, error) {
		got = write
		return json.RawMessage(`{"id":"j-1"}`), nil
	}

	body := `{"id":"j-1","updatedAt":"2026-03-01T10:00:00Z"}`
	rec := serve(h, authorized(httptest.NewRequest(http.MethodPut, "/api/jobs/j-1", strings.NewReader(body))))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Jobs, got.EntityType)
	assert.Equal(t, "j-1", got.ID)
	assert.JSONEq(t, body, string(got.Payload))
}

func TestUpdateRecord_ConflictReturnsDescriptor(t *testing.T) {
	h, mocks := newTestHandler(t)
	descriptor := models.ConflictDescriptor{
		EntityID:        "j-1",
		EntityType:      models.Jobs,
		Message:         "record was modified on the server",
		ServerUpdatedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		ClientUpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	mocks.records.updateFn = func(context.Context, models.RecordWrite) (json.RawMessage, error) {
		return nil, &service.ConflictError{Descriptor: descriptor}
	}

	rec := serve(h, authorized(httptest.NewRequest(http.MethodPut, "/api/jobs/j-1",
		strings.NewReader(`{"updatedAt":"2026-03-01T10:00:00Z"}`))))

	require.Equal(t, http.StatusConflict, rec.Code)
	var got models.ConflictDescriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, descriptor, got)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.records.updateFn = func(context.Context, models.RecordWrite) (json.RawMessage, error) {
		return nil, store.ErrRecordNotFound
	}

	rec := serve(h, authorized(httptest.NewRequest(http.MethodPut, "/api/jobs/missing",
		strings.NewReader(`{"updatedAt":"2026-03-01T10:00:00Z"}`))))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────
// DELETE /api/{resource}/{id}
// ─────────────────────────────────────────────

func TestArchiveRecord_NoContent(t *testing.T) {
	h, mocks := newTestHandler(t)

	var gotEntity models.EntityType
	var gotID string
	mocks.records.archiveFn = func(_ context.Context, entity models.EntityType, id string) error {
		gotEntity, gotID = entity, id
		return nil
	}

	rec := serve(h, authorized(httptest.NewRequest(http.MethodDelete, "/api/invoices/i-9", nil)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.Equal(t, models.Invoices, gotEntity)
	assert.Equal(t, "i-9", gotID)
}

func TestArchiveRecord_NotFound(t *testing.T) {
	h, mocks := newTestHandler(t)
	mocks.records.archiveFn = func(context.Context, models.EntityType, string) error {
		return store.ErrRecordNotFound
	}

	rec := serve(h, authorized(httptest.NewRequest(http.MethodDelete, "/api/invoices/i-9", nil)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ─────────────────────────────────────────────
// statusFromError
// ─────────────────────────────────────────────

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrUnknownEntity, want: http.StatusNotFound},
		{err: service.ErrConflict, want: http.StatusConflict},
		{err: store.ErrRecordAlreadyExists, want: http.StatusConflict},
		{err: errInvalidSince, want: http.StatusBadRequest},
		{err: store.ErrScanningRows, want: http.StatusInternalServerError},
		{err: errors.New("anything else"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestAuditWrite(t *testing.T) {
	tests := []struct {
		name   string
		userID any
		want   any
	}{
		{name: "authenticated user", userID: int64(9), want: float64(9)},
		{name: "no user in context"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := &logger.Logger{Logger: zerolog.New(&buf)}

			req := httptest.NewRequest(http.MethodPut, "/api/jobs/j-1", nil)
			ctx := log.WithContext(req.Context())
			if tt.userID != nil {
				ctx = context.WithValue(ctx, utils.UserIDCtxKey, tt.userID)
			}

			auditWrite(req.WithContext(ctx), "update", models.Jobs, "j-1")

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, "update", line["action"])
			assert.Equal(t, "Jobs", line["entity"])
			assert.Equal(t, "j-1", line["id"])
			assert.Equal(t, tt.want, line["updated_by"])
		})
	}
}
