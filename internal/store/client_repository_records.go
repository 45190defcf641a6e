package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/models"
)

type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalRecordRepository returns the SQLite-backed [LocalRecordStore].
func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordStore {
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

func (l *localRecordRepository) ApplyDelta(ctx context.Context, records []models.LocalRecord) error {
	if len(records) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "localRecordRepository.ApplyDelta").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, record := range records {
		query, args, buildErr := buildUpsertLocalRecordQuery(record)
		if buildErr != nil {
			return buildErr
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "localRecordRepository.ApplyDelta").
				Str("entity", record.EntityType.String()).
				Str("id", record.ID).
				Msg("failed to upsert record")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if record.ChildType == "" {
			continue
		}

		// children are replaced as a set
		query, args, buildErr = buildDeleteLocalChildrenQuery(record.ChildType, record.ID)
		if buildErr != nil {
			return buildErr
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "localRecordRepository.ApplyDelta").
				Str("parent_id", record.ID).
				Msg("failed to delete children")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		for _, child := range record.Children {
			if child.EntityType == "" {
				child.EntityType = record.ChildType
			}
			query, args, buildErr = buildUpsertLocalChildQuery(child, record.ID)
			if buildErr != nil {
				return buildErr
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				log.Err(err).
					Str("func", "localRecordRepository.ApplyDelta").
					Str("parent_id", record.ID).
					Str("child_id", child.ID).
					Msg("failed to insert child")
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "localRecordRepository.ApplyDelta").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (l *localRecordRepository) Get(ctx context.Context, entity models.EntityType, id string) (models.LocalRecord, error) {
	query, args, err := buildSelectLocalRecordsQuery(entity, id, true)
	if err != nil {
		return models.LocalRecord{}, err
	}

	records, err := l.query(ctx, query, args, false)
	if err != nil {
		return models.LocalRecord{}, err
	}
	if len(records) == 0 {
		return models.LocalRecord{}, ErrRecordNotFound
	}
	return records[0], nil
}

func (l *localRecordRepository) List(ctx context.Context, entity models.EntityType, includeArchived bool) ([]models.LocalRecord, error) {
	query, args, err := buildSelectLocalRecordsQuery(entity, "", includeArchived)
	if err != nil {
		return nil, err
	}
	return l.query(ctx, query, args, false)
}

func (l *localRecordRepository) ListChildren(ctx context.Context, childType models.EntityType, parentID string) ([]models.LocalRecord, error) {
	query, args, err := buildSelectLocalChildrenQuery(childType, parentID)
	if err != nil {
		return nil, err
	}
	return l.query(ctx, query, args, true)
}

func (l *localRecordRepository) Count(ctx context.Context, entity models.EntityType) (int, error) {
	query, args, err := buildCountLocalRecordsQuery(entity)
	if err != nil {
		return 0, err
	}

	var count int
	if err = l.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localRecordRepository.Count").Msg("failed to count records")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

func (l *localRecordRepository) query(ctx context.Context, query string, args []any, withParent bool) ([]models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "localRecordRepository.query").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.LocalRecord
	for rows.Next() {
		var (
			record               models.LocalRecord
			entity               string
			payload              []byte
			createdAt, updatedAt string
		)

		dest := []any{&entity, &record.ID}
		if withParent {
			dest = append(dest, &record.ParentID)
		}
		dest = append(dest, &payload, &createdAt, &updatedAt, &record.IsArchived)

		if err = rows.Scan(dest...); err != nil {
			log.Err(err).Str("func", "localRecordRepository.query").Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		record.EntityType = models.EntityType(entity)
		record.Payload = payload
		if record.CreatedAt, err = parseLocalTime(createdAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if record.UpdatedAt, err = parseLocalTime(updatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "localRecordRepository.query").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}
