// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
	sq "github.com/Masterminds/squirrel"
)

const localUpsertSuffix = `ON CONFLICT (entity_type, id) DO UPDATE SET
		payload     = excluded.payload,
		created_at  = excluded.created_at,
		updated_at  = excluded.updated_at,
		is_archived = excluded.is_archived`

var localRecordColumns = []string{"entity_type", "id", "payload", "created_at", "updated_at", "is_archived"}

func formatLocalTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseLocalTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func buildUpsertLocalRecordQuery(record models.LocalRecord) (string, []any, error) {
	query, args, err := lite.
		Insert("records").
		Columns(localRecordColumns...).
		Values(
			string(record.EntityType),
			record.ID,
			[]byte(record.Payload),
			formatLocalTime(record.CreatedAt),
			formatLocalTime(record.UpdatedAt),
			record.IsArchived,
		).
		Suffix(localUpsertSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertLocalChildQuery(child models.LocalRecord, parentID string) (string, []any, error) {
	query, args, err := lite.
		Insert("child_records").
		Columns("entity_type", "id", "parent_id", "payload", "created_at", "updated_at", "is_archived").
		Values(
			string(child.EntityType),
			child.ID,
			parentID,
			[]byte(child.Payload),
			formatLocalTime(child.CreatedAt),
			formatLocalTime(child.UpdatedAt),
			child.IsArchived,
		).
		Suffix(localUpsertSuffix + `,
		parent_id   = excluded.parent_id`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteLocalChildrenQuery(childType models.EntityType, parentID string) (string, []any, error) {
	query, args, err := lite.
		Delete("child_records").
		Where(sq.Eq{"entity_type": string(childType), "parent_id": parentID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectLocalRecordsQuery(entity models.EntityType, id string, includeArchived bool) (string, []any, error) {
	builder := lite.
		Select(localRecordColumns...).
		From("records").
		Where(sq.Eq{"entity_type": string(entity)}).
		OrderBy("id")

	if id != "" {
		builder = builder.Where(sq.Eq{"id": id})
	}
	if !includeArchived {
		builder = builder.Where(sq.Eq{"is_archived": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectLocalChildrenQuery(childType models.EntityType, parentID string) (string, []any, error) {
	query, args, err := lite.
		Select("entity_type", "id", "parent_id", "payload", "created_at", "updated_at", "is_archived").
		From("child_records").
		Where(sq.Eq{"entity_type": string(childType), "parent_id": parentID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountLocalRecordsQuery(entity models.EntityType) (string, []any, error) {
	query, args, err := lite.
		Select("COUNT(*)").
		From("records").
		Where(sq.Eq{"entity_type": string(entity)}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
