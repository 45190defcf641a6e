package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

type recordWriter struct {
	transport adapter.Transport
	queue     OfflineQueue
	records   store.LocalRecordStore
	ids       *utils.UUIDGenerator
	logger    *logger.Logger
}

// NewRecordWriter returns a RecordWriter that falls back to queue when the
// server is unreachable.
func NewRecordWriter(transport adapter.Transport, queue OfflineQueue, records store.LocalRecordStore, logger *logger.Logger) RecordWriter {
	return &recordWriter{
		transport: transport,
		queue:     queue,
		records:   records,
		ids:       utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

func (w *recordWriter) Create(ctx context.Context, entity models.EntityType, record any) (models.LocalRecord, error) {
	if !entity.IsTopLevel() {
		return models.LocalRecord{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("error encoding %s record: %w", entity, err)
	}

	return w.send(ctx, entity, http.MethodPost, entity.Path(), payload, "create "+entity.String())
}

func (w *recordWriter) Update(ctx context.Context, entity models.EntityType, id string, record any) (models.LocalRecord, error) {
	if !entity.IsTopLevel() {
		return models.LocalRecord{}, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	if id == "" {
		return models.LocalRecord{}, ErrInvalidDataProvided
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("error encoding %s record: %w", entity, err)
	}

	return w.send(ctx, entity, http.MethodPut, recordPath(entity, id), payload, "update "+entity.String()+" "+id)
}

// Archive soft-deletes the record. The server answers without a body, so the
// local copy picks up the flag on the next pull.
func (w *recordWriter) Archive(ctx context.Context, entity models.EntityType, id string) error {
	if !entity.IsTopLevel() {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	if id == "" {
		return ErrInvalidDataProvided
	}

	_, err := w.send(ctx, entity, http.MethodDelete, recordPath(entity, id), nil, "archive "+entity.String()+" "+id)
	return err
}

// send issues the write with a fresh idempotency key. When the server cannot
// be reached the same key becomes the queue item id, so the replay is
// recognized by the server if the first attempt did land.
func (w *recordWriter) send(ctx context.Context, entity models.EntityType, method, path string, payload []byte, description string) (models.LocalRecord, error) {
	log := logger.FromContext(ctx)
	key := w.ids.Generate()

	var body json.RawMessage
	err := w.transport.Send(ctx, method, path, payload, key, &body)
	if err != nil {
		if !adapter.IsTransient(err) {
			return models.LocalRecord{}, err
		}

		item := models.OfflineQueueItem{
			ID:          key,
			HTTPMethod:  method,
			Endpoint:    path,
			Payload:     payload,
			Description: description,
		}
		if qErr := w.queue.Enqueue(ctx, item); qErr != nil {
			log.Err(qErr).Str("func", "recordWriter.send").Msg("failed to queue write")
			return models.LocalRecord{}, errors.Join(err, qErr)
		}
		return models.LocalRecord{}, fmt.Errorf("%w: %w", ErrQueuedOffline, err)
	}

	if len(body) == 0 {
		return models.LocalRecord{}, nil
	}

	record, err := localRecordFromJSON(entity, body)
	if err != nil {
		return models.LocalRecord{}, err
	}
	if err = w.records.ApplyDelta(ctx, []models.LocalRecord{record}); err != nil {
		log.Err(err).Str("func", "recordWriter.send").Str("id", record.ID).Msg("failed to store accepted record")
		return record, fmt.Errorf("error storing %s record locally: %w", entity, err)
	}

	return record, nil
}

func recordPath(entity models.EntityType, id string) string {
	return entity.Path() + "/" + url.PathEscape(id)
}
