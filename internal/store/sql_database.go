// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/migrations"
	"github.com/sethvargo/go-retry"
)

// ErrorClassificator decides whether a failed database operation may be
// attempted again.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DB wraps a *sql.DB with the driver's error classifier and a logger.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	dialect            migrations.Dialect
	logger             *logger.Logger
}

// Migrate applies the schema migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

const (
	dbRetryAttempts = 3
	dbRetryDelay    = 50 * time.Millisecond
)

// withRetry runs op again when it fails with an error the classifier marks
// [Retryable] (serialization failures, deadlocks, dropped connections).
func (db *DB) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	if db.errorClassificator == nil {
		return op(ctx)
	}

	backoff := retry.WithMaxRetries(dbRetryAttempts-1, retry.NewExponential(dbRetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && db.errorClassificator.Classify(err) == Retryable {
			logger.FromContext(ctx).Warn().Err(err).Str("func", "*DB.withRetry").Msg("retryable database error")
			return retry.RetryableError(err)
		}
		return err
	})
}
