package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, levelForStatus(http.StatusOK))
	assert.Equal(t, zerolog.InfoLevel, levelForStatus(http.StatusNoContent))
	assert.Equal(t, zerolog.WarnLevel, levelForStatus(http.StatusConflict))
	assert.Equal(t, zerolog.ErrorLevel, levelForStatus(http.StatusBadGateway))
}

func TestWithLogging_WritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}
	h, _ := newTestHandler(t)

	handler := h.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("conflict"))
	}))

	req := httptest.NewRequest(http.MethodPut, "/api/jobs/j-1", nil)
	req = req.WithContext(log.WithContext(req.Context()))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "/api/jobs/j-1", line["uri"])
	assert.Equal(t, http.MethodPut, line["method"])
	assert.EqualValues(t, http.StatusConflict, line["status"])
	assert.EqualValues(t, len("conflict"), line["size"])
}

func TestWithLogging_ImplicitStatusIsOK(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}
	h, _ := newTestHandler(t)

	handler := h.withLogging(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req = req.WithContext(log.WithContext(req.Context()))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.EqualValues(t, http.StatusOK, line["status"])
	assert.Equal(t, "info", line["level"])
}

func TestResponseWriter_RecordsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)
	n, err := rw.Write([]byte("abc"))

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusCreated, rw.status)
	assert.Equal(t, 3, rw.size)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Same(t, rec, rw.Unwrap())
}
