package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/validators"
	"github.com/MKhiriev/go-field-sync/models"
)

// RecordValidationService decorates a RecordService with request validation.
// Invalid requests are rejected with ErrInvalidDataProvided before they reach
// the inner service.
type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
	logger    *logger.Logger
}

func NewRecordValidationService(validator validators.Validator, logger *logger.Logger) *RecordValidationService {
	return &RecordValidationService{validator: validator, logger: logger}
}

// Wrap implements RecordServiceWrapper.
func (v *RecordValidationService) Wrap(inner RecordService) RecordService {
	return &RecordValidationService{inner: inner, validator: v.validator, logger: v.logger}
}

func (v *RecordValidationService) List(ctx context.Context, entity models.EntityType, since *time.Time) (models.SyncEnvelope[json.RawMessage], error) {
	if err := v.validator.Validate(ctx, models.RecordWrite{EntityType: entity}, validators.FieldEntityType); err != nil {
		return models.SyncEnvelope[json.RawMessage]{}, v.invalid(ctx, "List", err)
	}
	return v.inner.List(ctx, entity, since)
}

func (v *RecordValidationService) Create(ctx context.Context, write models.RecordWrite) (json.RawMessage, error) {
	if err := v.validator.Validate(ctx, write); err != nil {
		return nil, v.invalid(ctx, "Create", err)
	}
	return v.inner.Create(ctx, write)
}

func (v *RecordValidationService) Update(ctx context.Context, write models.RecordWrite) (json.RawMessage, error) {
	err := v.validator.Validate(ctx, write,
		validators.FieldEntityType,
		validators.FieldID,
		validators.FieldPayload,
		validators.FieldUpdatedAt,
		validators.FieldPayloadID,
		validators.FieldChildren,
	)
	if err != nil {
		return nil, v.invalid(ctx, "Update", err)
	}
	return v.inner.Update(ctx, write)
}

func (v *RecordValidationService) Archive(ctx context.Context, entity models.EntityType, id string) error {
	err := v.validator.Validate(ctx, models.RecordWrite{EntityType: entity, ID: id},
		validators.FieldEntityType,
		validators.FieldID,
	)
	if err != nil {
		return v.invalid(ctx, "Archive", err)
	}
	return v.inner.Archive(ctx, entity, id)
}

func (v *RecordValidationService) invalid(ctx context.Context, method string, err error) error {
	logger.FromContext(ctx).Debug().Err(err).Str("func", "RecordValidationService."+method).Msg("request rejected")
	return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
}
