package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "integrity-key"

func hashedRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(utils.HashHeader, signature)
	}
	return req
}

// echoBody answers with the request body it receives.
var echoBody = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Write(body)
})

func TestWithBodyHash_ValidSignature(t *testing.T) {
	h, _ := newTestHandler(t, WithHashKey(testHashKey))
	body := `{"name":"Acme"}`

	rec := httptest.NewRecorder()
	h.withBodyHash(echoBody).ServeHTTP(rec, hashedRequest(body, utils.HashString(body, testHashKey)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String(), "the body is restored for the next handler")
}

func TestWithBodyHash_Mismatch(t *testing.T) {
	h, _ := newTestHandler(t, WithHashKey(testHashKey))

	rec := httptest.NewRecorder()
	h.withBodyHash(echoBody).ServeHTTP(rec, hashedRequest(`{"name":"Acme"}`, utils.HashString(`{"name":"Evil"}`, testHashKey)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errIntegrityCheck.Error(), decodeErrorResponse(t, rec).Message)
}

func TestWithBodyHash_PassesThrough(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		signature string
	}{
		{name: "no header", opts: []Option{WithHashKey(testHashKey)}},
		{name: "no key configured", signature: "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, tt.opts...)

			rec := httptest.NewRecorder()
			h.withBodyHash(echoBody).ServeHTTP(rec, hashedRequest("payload", tt.signature))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "payload", rec.Body.String())
		})
	}
}

func TestWithBodyHash_OnRecordRoute(t *testing.T) {
	h, _ := newTestHandler(t, WithHashKey(testHashKey))

	req := authorized(httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{"name":"Acme"}`)))
	req.Header.Set(utils.HashHeader, "00")
	rec := serve(h, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
