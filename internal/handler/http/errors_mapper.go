package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrMalformedPayload:        http.StatusBadRequest,
	service.ErrMissingUpdatedAt:        http.StatusBadRequest,
	service.ErrRecordIDMismatch:        http.StatusBadRequest,
	service.ErrIdempotencyKeyTooLong:   http.StatusBadRequest,
	service.ErrUnknownEntity:           http.StatusNotFound,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrConflict:                http.StatusConflict,

	errUnknownResource: http.StatusNotFound,
	errInvalidSince:    http.StatusBadRequest,
	errInvalidJSON:     http.StatusBadRequest,
	errIntegrityCheck:  http.StatusBadRequest,

	store.ErrLoginAlreadyExists:  http.StatusConflict,
	store.ErrNoUserWasFound:      http.StatusUnauthorized,
	store.ErrRecordNotFound:      http.StatusNotFound,
	store.ErrRecordAlreadyExists: http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the status mapped from err. A conflict is answered
// with its descriptor, everything else with an [models.ErrorResponse]. Server
// faults never leak their message.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	log := logger.FromRequest(r)

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		log.Info().Str("func", funcName).Str("id", conflict.Descriptor.EntityID).Msg("write rejected as stale")
		utils.WriteJSON(w, conflict.Descriptor, http.StatusConflict)
		return
	}

	status := statusFromError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Msg("request failed")
		message = http.StatusText(status)
	} else {
		log.Debug().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}

	utils.WriteJSON(w, models.ErrorResponse{Message: message}, status)
}
