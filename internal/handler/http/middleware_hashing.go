package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

// withBodyHash checks the HashSHA256 header against the HMAC of the raw
// request body. Requests without the header pass; the check is off when the
// handler has no hash key.
func (h *Handler) withBodyHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get(utils.HashHeader)
		if h.hasher == nil || signature == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.withBodyHash").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !h.hasher.Verify(body, signature) {
			log.Error().Str("func", "*Handler.withBodyHash").
				Str("hash from request", signature).
				Msg("hashes are not equal")
			utils.WriteJSON(w, models.ErrorResponse{Message: errIntegrityCheck.Error()}, http.StatusBadRequest)
			return
		}

		log.Debug().Str("func", "*Handler.withBodyHash").Msg("hashes are equal")

		next.ServeHTTP(w, r)
	})
}
