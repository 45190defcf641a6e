package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"
)

const idempotencyKeyHeader = "Idempotency-Key"

// maxRecordBodySize caps one record write, children included.
const maxRecordBodySize = 4 << 20

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	entity, err := resourceFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.listRecords", err)
		return
	}

	since, err := sinceFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.listRecords", err)
		return
	}

	envelope, err := h.services.RecordService.List(r.Context(), entity, since)
	if err != nil {
		writeError(w, r, "*Handler.listRecords", err)
		return
	}

	logger.FromRequest(r).Debug().
		Str("entity", entity.String()).
		Int("count", envelope.TotalCount).
		Bool("delta", since != nil).
		Msg("records listed")

	utils.WriteJSON(w, envelope, http.StatusOK)
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	entity, err := resourceFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.createRecord", err)
		return
	}

	payload, err := readRecordBody(w, r)
	if err != nil {
		writeError(w, r, "*Handler.createRecord", err)
		return
	}

	created, err := h.services.RecordService.Create(r.Context(), models.RecordWrite{
		EntityType:     entity,
		Payload:        payload,
		IdempotencyKey: r.Header.Get(idempotencyKeyHeader),
	})
	if err != nil {
		writeError(w, r, "*Handler.createRecord", err)
		return
	}

	auditWrite(r, "create", entity, gjson.GetBytes(created, "id").String())
	writeRawJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	entity, err := resourceFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.updateRecord", err)
		return
	}

	payload, err := readRecordBody(w, r)
	if err != nil {
		writeError(w, r, "*Handler.updateRecord", err)
		return
	}

	updated, err := h.services.RecordService.Update(r.Context(), models.RecordWrite{
		EntityType: entity,
		ID:         chi.URLParam(r, "id"),
		Payload:    payload,
	})
	if err != nil {
		writeError(w, r, "*Handler.updateRecord", err)
		return
	}

	auditWrite(r, "update", entity, chi.URLParam(r, "id"))
	writeRawJSON(w, updated, http.StatusOK)
}

func (h *Handler) archiveRecord(w http.ResponseWriter, r *http.Request) {
	entity, err := resourceFromRequest(r)
	if err != nil {
		writeError(w, r, "*Handler.archiveRecord", err)
		return
	}

	id := chi.URLParam(r, "id")
	if err = h.services.RecordService.Archive(r.Context(), entity, id); err != nil {
		writeError(w, r, "*Handler.archiveRecord", err)
		return
	}
	auditWrite(r, "archive", entity, id)

	w.WriteHeader(http.StatusNoContent)
}

// resourceFromRequest returns the entity type bound to the matched route.
func resourceFromRequest(r *http.Request) (models.EntityType, error) {
	entity, ok := utils.GetEntityFromContext(r.Context())
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnknownResource, r.URL.Path)
	}
	return entity, nil
}

// auditWrite records which user changed which record.
func auditWrite(r *http.Request, action string, entity models.EntityType, id string) {
	event := logger.FromRequest(r).Info().
		Str("action", action).
		Str("entity", entity.String()).
		Str("id", id)
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		event = event.Int64("updated_by", userID)
	}
	event.Msg("record written")
}

// sinceFromRequest parses the optional since query parameter. An absent or
// empty value means a full pull.
func sinceFromRequest(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return nil, nil
	}

	since, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidSince, err)
	}
	since = since.UTC()
	return &since, nil
}

func readRecordBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRecordBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	return body, nil
}

func writeRawJSON(w http.ResponseWriter, body json.RawMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
