package store

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (login, password_hash, name) 
    VALUES ($1, $2, $3) 
    RETURNING user_id, login, password_hash, name, created_at;`

	findUserByLogin = `SELECT user_id, login, password_hash, name, created_at 
    FROM users 
    WHERE login = $1;`

	// updateRecordIfNotStale applies an update only when the stored
	// updated_at is not after the client's claimed one ($6).
	//
	// Result:
	//   - no row             → record does not exist;
	//   - updated columns NULL → stale write, last column holds stored updated_at;
	//   - otherwise          → the updated row.
	updateRecordIfNotStale = `
		WITH target AS (
			SELECT updated_at
			FROM records
			WHERE entity_type = $1 AND id = $2
		), updated AS (
			UPDATE records
			SET payload = $3, is_archived = $4, updated_at = $5
			WHERE entity_type = $1 AND id = $2 AND updated_at <= $6
			RETURNING id, payload, created_at, updated_at, is_archived
		)
		SELECT u.id, u.payload, u.created_at, u.updated_at, u.is_archived, t.updated_at
		FROM target t
		LEFT JOIN updated u ON TRUE;`
)

var recordColumns = []string{"entity_type", "id", "payload", "created_at", "updated_at", "is_archived"}

func buildListRecordsQuery(entity models.EntityType, since *time.Time) (string, []any, error) {
	builder := psql.
		Select(recordColumns...).
		From("records").
		Where(sq.Eq{"entity_type": string(entity)}).
		OrderBy("updated_at", "id")

	if since != nil {
		builder = builder.Where(sq.GtOrEq{"updated_at": *since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetRecordQuery(entity models.EntityType, id string) (string, []any, error) {
	query, args, err := psql.
		Select(recordColumns...).
		From("records").
		Where(sq.Eq{"entity_type": string(entity), "id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertRecordQuery(record models.Record) (string, []any, error) {
	query, args, err := psql.
		Insert("records").
		Columns(recordColumns...).
		Values(string(record.EntityType), record.ID, string(record.Payload), record.CreatedAt, record.UpdatedAt, record.IsArchived).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildArchiveRecordQuery(entity models.EntityType, id string, at time.Time) (string, []any, error) {
	query, args, err := psql.
		Update("records").
		Set("is_archived", true).
		Set("updated_at", at).
		Where(sq.Eq{"entity_type": string(entity), "id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildFindIdempotencyKeyQuery(entity models.EntityType, key string) (string, []any, error) {
	query, args, err := psql.
		Select("record_id").
		From("idempotency_keys").
		Where(sq.Eq{"entity_type": string(entity), "key": key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertIdempotencyKeyQuery(entity models.EntityType, key, recordID string) (string, []any, error) {
	query, args, err := psql.
		Insert("idempotency_keys").
		Columns("entity_type", "key", "record_id").
		Values(string(entity), key, recordID).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
