// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
	"github.com/jackc/pgerrcode"
)

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository] over the "records" and "idempotency_keys" tables.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by db.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	logger.Debug().Msg("creating record repository")
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		record  models.Record
		entity  string
		payload []byte
	)
	if err := row.Scan(&entity, &record.ID, &payload, &record.CreatedAt, &record.UpdatedAt, &record.IsArchived); err != nil {
		return models.Record{}, err
	}
	record.EntityType = models.EntityType(entity)
	record.Payload = payload
	return record, nil
}

func (r *recordRepository) ListSince(ctx context.Context, entity models.EntityType, since *time.Time) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRecordsQuery(entity, since)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.ListSince").Str("entity", entity.String()).Msg("failed to create query")
		return nil, err
	}

	var records []models.Record
	err = r.withRetry(ctx, func(ctx context.Context) error {
		rows, queryErr := r.DB.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
		}
		defer rows.Close()

		records = make([]models.Record, 0, 50)
		for rows.Next() {
			record, scanErr := scanRecord(rows)
			if scanErr != nil {
				return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
			}
			records = append(records, record)
		}

		if rowsErr := rows.Err(); rowsErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
		}
		return nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListSince").
			Str("entity", entity.String()).
			Msg("failed to list records")
		return nil, err
	}

	return records, nil
}

func (r *recordRepository) Get(ctx context.Context, entity models.EntityType, id string) (models.Record, error) {
	query, args, err := buildGetRecordQuery(entity, id)
	if err != nil {
		return models.Record{}, err
	}
	return r.getByQuery(ctx, query, args)
}

func (r *recordRepository) getByQuery(ctx context.Context, query string, args []any) (models.Record, error) {
	log := logger.FromContext(ctx)

	record, err := scanRecord(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, ErrRecordNotFound
		}
		log.Err(err).Str("func", "recordRepository.Get").Msg("failed to get record")
		return models.Record{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return record, nil
}

func (r *recordRepository) Create(ctx context.Context, record models.Record, idempotencyKey string) (models.Record, bool, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "recordRepository.Create").
		Str("entity", record.EntityType.String()).
		Str("id", record.ID).
		Logger()

	if idempotencyKey != "" {
		existing, found, err := r.findByIdempotencyKey(ctx, record.EntityType, idempotencyKey)
		if err != nil {
			return models.Record{}, false, err
		}
		if found {
			log.Info().Str("idempotency_key", idempotencyKey).Msg("replayed create, returning stored record")
			return existing, false, nil
		}
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Msg("failed to begin transaction")
		return models.Record{}, false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck

	query, args, err := buildInsertRecordQuery(record)
	if err != nil {
		return models.Record{}, false, err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Msg("failed to insert record")
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.Record{}, false, ErrRecordAlreadyExists
		}
		return models.Record{}, false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if idempotencyKey != "" {
		query, args, err = buildInsertIdempotencyKeyQuery(record.EntityType, idempotencyKey, record.ID)
		if err != nil {
			return models.Record{}, false, err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Msg("failed to store idempotency key")
			if postgresError(err) == pgerrcode.UniqueViolation {
				// a concurrent replay with the same key won the race
				_ = tx.Rollback()
				existing, found, findErr := r.findByIdempotencyKey(ctx, record.EntityType, idempotencyKey)
				if findErr == nil && found {
					return existing, false, nil
				}
			}
			return models.Record{}, false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Msg("failed to commit transaction")
		return models.Record{}, false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return record, true, nil
}

func (r *recordRepository) findByIdempotencyKey(ctx context.Context, entity models.EntityType, key string) (models.Record, bool, error) {
	query, args, err := buildFindIdempotencyKeyQuery(entity, key)
	if err != nil {
		return models.Record{}, false, err
	}

	var recordID string
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(&recordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, false, nil
		}
		return models.Record{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	record, err := r.Get(ctx, entity, recordID)
	if err != nil {
		return models.Record{}, false, err
	}
	return record, true, nil
}

func (r *recordRepository) Update(ctx context.Context, record models.Record, clientUpdatedAt time.Time) (models.Record, error) {
	log := logger.FromContext(ctx)

	var (
		updated       models.Record
		id            sql.NullString
		payload       []byte
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
		isArchived    sql.NullBool
		storedUpdated time.Time
	)

	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.DB.QueryRowContext(ctx, updateRecordIfNotStale,
			string(record.EntityType),
			record.ID,
			string(record.Payload),
			record.IsArchived,
			record.UpdatedAt,
			clientUpdatedAt,
		).Scan(&id, &payload, &createdAt, &updatedAt, &isArchived, &storedUpdated)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, ErrRecordNotFound
		}
		log.Err(err).
			Str("func", "recordRepository.Update").
			Str("entity", record.EntityType.String()).
			Str("id", record.ID).
			Msg("failed to update record")
		return models.Record{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if !id.Valid {
		return models.Record{}, &StaleWriteError{ServerUpdatedAt: storedUpdated}
	}

	updated = models.Record{
		EntityType: record.EntityType,
		ID:         id.String,
		Payload:    payload,
		CreatedAt:  createdAt.Time,
		UpdatedAt:  updatedAt.Time,
		IsArchived: isArchived.Bool,
	}
	return updated, nil
}

func (r *recordRepository) Archive(ctx context.Context, entity models.EntityType, id string, at time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildArchiveRecordQuery(entity, id, at)
	if err != nil {
		return err
	}

	var affected int64
	err = r.withRetry(ctx, func(ctx context.Context) error {
		res, execErr := r.DB.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "recordRepository.Archive").Str("id", id).Msg("failed to archive record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
