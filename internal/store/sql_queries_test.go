// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildListRecordsQuery_WithoutSince(t *testing.T) {
	query, args, err := buildListRecordsQuery(models.Customers, nil)
	require.NoError(t, err)

	require.Len(t, args, 1)
	assert.Equal(t, "Customers", args[0])

	q := strings.ToLower(query)
	assert.Contains(t, q, "from records")
	assert.Contains(t, q, "entity_type = $1")
	assert.NotContains(t, q, "updated_at >=")
	assert.Contains(t, q, "order by updated_at, id")
}

func Test_buildListRecordsQuery_WithSince(t *testing.T) {
	since := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	query, args, err := buildListRecordsQuery(models.Jobs, &since)
	require.NoError(t, err)

	require.Len(t, args, 2)
	assert.Equal(t, "Jobs", args[0])
	assert.Equal(t, since, args[1])
	assert.Contains(t, query, "updated_at >= $2")
}

func Test_buildGetRecordQuery(t *testing.T) {
	query, args, err := buildGetRecordQuery(models.Invoices, "inv-1")
	require.NoError(t, err)

	assert.Equal(t, []any{"Invoices", "inv-1"}, args)
	assert.Contains(t, query, "entity_type = $1 AND id = $2")
}

func Test_buildInsertRecordQuery_ColumnsAndArgs(t *testing.T) {
	now := time.Now().UTC()
	record := models.Record{
		EntityType: models.Estimates,
		ID:         "est-1",
		Payload:    []byte(`{"id":"est-1"}`),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query, args, err := buildInsertRecordQuery(record)
	require.NoError(t, err)

	require.Len(t, args, 6)
	assert.Equal(t, `{"id":"est-1"}`, args[2])
	assert.Equal(t, false, args[5])

	q := strings.ToLower(query)
	assert.Contains(t, q, "insert into records")
	for _, col := range recordColumns {
		assert.Contains(t, q, col)
	}
	assert.Contains(t, query, "$6")
}

func Test_buildArchiveRecordQuery(t *testing.T) {
	at := time.Now().UTC()

	query, args, err := buildArchiveRecordQuery(models.MaterialLists, "ml-1", at)
	require.NoError(t, err)

	assert.Equal(t, []any{true, at, "MaterialLists", "ml-1"}, args)
	q := strings.ToLower(query)
	assert.Contains(t, q, "update records set is_archived = $1, updated_at = $2")
}

func Test_buildIdempotencyKeyQueries(t *testing.T) {
	query, args, err := buildFindIdempotencyKeyQuery(models.Customers, "key-1")
	require.NoError(t, err)
	assert.Equal(t, []any{"Customers", "key-1"}, args)
	assert.Contains(t, strings.ToLower(query), "from idempotency_keys")

	query, args, err = buildInsertIdempotencyKeyQuery(models.Customers, "key-1", "c-1")
	require.NoError(t, err)
	assert.Equal(t, []any{"Customers", "key-1", "c-1"}, args)
	assert.Contains(t, strings.ToLower(query), "insert into idempotency_keys")
}
