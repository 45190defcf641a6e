// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/models"
)

// ErrConflict is matched by [ConflictError] values.
var ErrConflict = errors.New("record was modified after the submitted version")

// ConflictError rejects an update whose claimed updatedAt is older than the
// stored one. It carries the descriptor sent back to the client with 409.
type ConflictError struct {
	Descriptor models.ConflictDescriptor
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConflict, e.Descriptor.EntityType, e.Descriptor.EntityID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ConflictDetector applies updates under last-writer-wins with stale-write
// rejection: an update is accepted only when the client's updatedAt is not
// older than the stored one, and then overwrites the whole record.
//
// The comparison and the write happen in one statement of the repository, so
// a concurrent writer cannot slip in between.
type ConflictDetector struct {
	records store.RecordRepository
	logger  *logger.Logger
}

func NewConflictDetector(records store.RecordRepository, logger *logger.Logger) *ConflictDetector {
	return &ConflictDetector{records: records, logger: logger}
}

// Apply stores record if clientUpdatedAt is at or after the stored updatedAt.
// Otherwise it returns *ConflictError and nothing is written.
func (d *ConflictDetector) Apply(ctx context.Context, record models.Record, clientUpdatedAt time.Time) (models.Record, error) {
	stored, err := d.records.Update(ctx, record, clientUpdatedAt)

	var stale *store.StaleWriteError
	if errors.As(err, &stale) {
		logger.FromContext(ctx).Info().
			Str("entity", record.EntityType.String()).
			Str("id", record.ID).
			Time("server_updated_at", stale.ServerUpdatedAt).
			Time("client_updated_at", clientUpdatedAt).
			Msg("stale update rejected")

		return models.Record{}, &ConflictError{Descriptor: models.ConflictDescriptor{
			EntityID:        record.ID,
			EntityType:      record.EntityType,
			Message:         "The record was changed on the server after your copy was taken. Pull the latest version and resubmit.",
			ServerUpdatedAt: stale.ServerUpdatedAt.UTC(),
			ClientUpdatedAt: clientUpdatedAt.UTC(),
		}}
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("error updating %s %s: %w", record.EntityType, record.ID, err)
	}

	return stored, nil
}
