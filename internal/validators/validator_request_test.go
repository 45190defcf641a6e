// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-field-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func createWrite(entity models.EntityType, payload string) models.RecordWrite {
	return models.RecordWrite{EntityType: entity, Payload: []byte(payload)}
}

func updateWrite(entity models.EntityType, id, payload string) models.RecordWrite {
	return models.RecordWrite{EntityType: entity, ID: id, Payload: []byte(payload)}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestNewRequestValidator(t *testing.T) {
	require.NotNil(t, NewRequestValidator())
}

func TestValidate_UnsupportedType(t *testing.T) {
	v := NewRequestValidator()

	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(context.Background(), (*models.RecordWrite)(nil)), ErrUnsupportedType)
}

func TestValidate_PointerForms(t *testing.T) {
	v := NewRequestValidator()
	w := createWrite(models.Customers, `{"name":"Acme"}`)
	req := models.LoginRequest{Login: "tech", Password: "long-enough"}

	assert.NoError(t, v.Validate(context.Background(), &w))
	assert.NoError(t, v.Validate(context.Background(), &req))
}

func TestValidate_UnknownField(t *testing.T) {
	v := NewRequestValidator()

	err := v.Validate(context.Background(), createWrite(models.Customers, `{}`), "nope")
	assert.ErrorIs(t, err, ErrUnknownField)
}

// ---------------------------------------------------------------------------
// Record writes
// ---------------------------------------------------------------------------

func TestValidate_RecordCreate(t *testing.T) {
	tests := []struct {
		name    string
		write   models.RecordWrite
		wantErr error
	}{
		{
			name:  "plain customer",
			write: createWrite(models.Customers, `{"name":"Acme"}`),
		},
		{
			name:  "client chosen id",
			write: createWrite(models.Jobs, `{"id":"job-1","title":"Fix boiler"}`),
		},
		{
			name:  "estimate with lines",
			write: createWrite(models.Estimates, `{"number":"E-1","lines":[{"description":"pipe","quantity":2}]}`),
		},
		{
			name:  "null child collection",
			write: createWrite(models.Invoices, `{"number":"I-1","lines":null}`),
		},
		{
			name:    "child type has no resource",
			write:   createWrite(models.EstimateLines, `{}`),
			wantErr: ErrUnknownEntityType,
		},
		{
			name:    "unknown type",
			write:   createWrite("Trucks", `{}`),
			wantErr: ErrUnknownEntityType,
		},
		{
			name:    "array body",
			write:   createWrite(models.Customers, `[1,2]`),
			wantErr: ErrPayloadNotObject,
		},
		{
			name:    "broken json",
			write:   createWrite(models.Customers, `{"name":`),
			wantErr: ErrPayloadNotObject,
		},
		{
			name:    "numeric id",
			write:   createWrite(models.Customers, `{"id":7}`),
			wantErr: ErrInvalidMetaField,
		},
		{
			name:    "string archive flag",
			write:   createWrite(models.Customers, `{"isArchived":"yes"}`),
			wantErr: ErrInvalidMetaField,
		},
		{
			name:    "unparsable createdAt",
			write:   createWrite(models.Customers, `{"createdAt":"yesterday"}`),
			wantErr: ErrInvalidMetaField,
		},
		{
			name:    "lines is an object",
			write:   createWrite(models.Estimates, `{"lines":{"a":1}}`),
			wantErr: ErrInvalidChildren,
		},
		{
			name:    "line is a number",
			write:   createWrite(models.MaterialLists, `{"items":[1]}`),
			wantErr: ErrInvalidChildren,
		},
		{
			name:    "line with bad id",
			write:   createWrite(models.MaterialLists, `{"items":[{"id":false}]}`),
			wantErr: ErrInvalidMetaField,
		},
		{
			name: "oversized idempotency key",
			write: models.RecordWrite{
				EntityType:     models.Customers,
				Payload:        []byte(`{}`),
				IdempotencyKey: strings.Repeat("k", maxIdempotencyKeyLength+1),
			},
			wantErr: ErrInvalidIdemKey,
		},
	}

	v := NewRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.write)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_RecordUpdate(t *testing.T) {
	tests := []struct {
		name    string
		write   models.RecordWrite
		wantErr error
	}{
		{
			name:  "valid",
			write: updateWrite(models.Customers, "c-1", `{"id":"c-1","updatedAt":"2026-03-01T10:00:00.123456Z","name":"Acme"}`),
		},
		{
			name:  "id omitted from body",
			write: updateWrite(models.Customers, "c-1", `{"updatedAt":"2026-03-01T10:00:00Z"}`),
		},
		{
			name:    "missing updatedAt",
			write:   updateWrite(models.Customers, "c-1", `{"name":"Acme"}`),
			wantErr: ErrMissingUpdatedAt,
		},
		{
			name:    "null updatedAt",
			write:   updateWrite(models.Customers, "c-1", `{"updatedAt":null}`),
			wantErr: ErrMissingUpdatedAt,
		},
		{
			name:    "id mismatch",
			write:   updateWrite(models.Customers, "c-1", `{"id":"c-2","updatedAt":"2026-03-01T10:00:00Z"}`),
			wantErr: ErrRecordIDMismatch,
		},
	}

	v := NewRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.write)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_RecordWrite_FieldScoping(t *testing.T) {
	v := NewRequestValidator()
	w := models.RecordWrite{EntityType: models.Customers, Payload: []byte(`{}`)}

	assert.ErrorIs(t, v.Validate(context.Background(), w, FieldID), ErrInvalidRecordID)
	assert.NoError(t, v.Validate(context.Background(), w, FieldEntityType))
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

func TestValidate_LoginRequest(t *testing.T) {
	v := NewRequestValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.LoginRequest{Login: "tech", Password: "12345678"}))
	assert.ErrorIs(t, v.Validate(ctx, models.LoginRequest{Password: "12345678"}), ErrEmptyLogin)
	assert.ErrorIs(t, v.Validate(ctx, models.LoginRequest{Login: "tech", Password: "short"}), ErrInvalidPassword)
	assert.ErrorIs(t, v.Validate(ctx, models.LoginRequest{Login: "tech", Password: strings.Repeat("p", 73)}), ErrInvalidPassword)

	// login only: a short password is the password check's business
	assert.NoError(t, v.Validate(ctx, models.LoginRequest{Login: "tech", Password: "x"}, FieldLogin))
}
