// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository stores API accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// RecordRepository stores every entity type in one table keyed by
// (entity type, id).
type RecordRepository interface {
	// ListSince returns records with updatedAt at or after since, ordered by
	// updatedAt. A nil since returns all records of the entity type.
	ListSince(ctx context.Context, entity models.EntityType, since *time.Time) ([]models.Record, error)

	// Get returns one record or [ErrRecordNotFound].
	Get(ctx context.Context, entity models.EntityType, id string) (models.Record, error)

	// Create inserts a record. With a non-empty idempotencyKey that has
	// already been used for the entity type, the previously created record
	// is returned and created is false.
	Create(ctx context.Context, record models.Record, idempotencyKey string) (stored models.Record, created bool, err error)

	// Update overwrites payload, archive flag and updatedAt of an existing
	// record, but only when its stored updatedAt is not after
	// clientUpdatedAt. Otherwise it returns a *[StaleWriteError] and leaves
	// the row untouched.
	Update(ctx context.Context, record models.Record, clientUpdatedAt time.Time) (models.Record, error)

	// Archive sets the soft-delete flag and stamps updatedAt.
	Archive(ctx context.Context, entity models.EntityType, id string, at time.Time) error
}
