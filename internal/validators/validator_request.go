package validators

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
	"github.com/tidwall/gjson"
)

// RequestValidator implements the Validator interface for inbound API
// requests: record writes ([models.RecordWrite]) and credentials
// ([models.LoginRequest]).
//
// Both value and pointer forms are accepted. Optional field names restrict
// validation to the named checks; when omitted, a default set is used.
type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches on the dynamic type of obj.
//
// Default checks:
//   - models.RecordWrite with an empty ID (create): entity type, payload,
//     children, idempotency key.
//   - models.RecordWrite with an ID (update): the above plus id, updatedAt
//     and payload id.
//   - models.LoginRequest: login and password.
//
// Returns ErrUnsupportedType if obj does not match any known model.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RecordWrite:
		return v.validateRecordWrite(ctx, value, fields...)
	case *models.RecordWrite:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateRecordWrite(ctx, *value, fields...)
	case models.LoginRequest:
		return v.validateLoginRequest(ctx, value, fields...)
	case *models.LoginRequest:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateLoginRequest(ctx, *value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateRecordWrite(ctx context.Context, write models.RecordWrite, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntityType, FieldPayload, FieldChildren, FieldIdempotencyKey}
		if write.ID != "" {
			fields = append(fields, FieldID, FieldUpdatedAt, FieldPayloadID)
		}
	}

	doc := gjson.ParseBytes(write.Payload)

	for _, f := range fields {
		switch f {
		case FieldEntityType:
			if !write.EntityType.IsTopLevel() {
				return fmt.Errorf("%w: %q", ErrUnknownEntityType, write.EntityType)
			}
		case FieldID:
			if write.ID == "" {
				return ErrInvalidRecordID
			}
		case FieldPayload:
			if !gjson.ValidBytes(write.Payload) || !doc.IsObject() {
				return ErrPayloadNotObject
			}
			if err := validateMeta(doc); err != nil {
				return err
			}
		case FieldUpdatedAt:
			updatedAt := doc.Get("updatedAt")
			if updatedAt.Type != gjson.String {
				return ErrMissingUpdatedAt
			}
			if _, err := time.Parse(time.RFC3339Nano, updatedAt.String()); err != nil {
				return fmt.Errorf("%w: %w", ErrMissingUpdatedAt, err)
			}
		case FieldPayloadID:
			if id := doc.Get("id"); id.Exists() && id.String() != write.ID {
				return ErrRecordIDMismatch
			}
		case FieldChildren:
			_, field, _, ok := write.EntityType.Children()
			if !ok {
				continue
			}
			children := doc.Get(field)
			if !children.Exists() || children.Type == gjson.Null {
				continue
			}
			if !children.IsArray() {
				return fmt.Errorf("%w: %s", ErrInvalidChildren, field)
			}
			for i, child := range children.Array() {
				if !child.IsObject() {
					return fmt.Errorf("%w: %s[%d]", ErrInvalidChildren, field, i)
				}
				if err := validateMeta(child); err != nil {
					return fmt.Errorf("%s[%d]: %w", field, i, err)
				}
			}
		case FieldIdempotencyKey:
			if len(write.IdempotencyKey) > maxIdempotencyKeyLength {
				return ErrInvalidIdemKey
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateMeta checks the JSON types of identity fields that are present.
func validateMeta(doc gjson.Result) error {
	if id := doc.Get("id"); id.Exists() && (id.Type != gjson.String || id.String() == "") {
		return fmt.Errorf("%w: id", ErrInvalidMetaField)
	}
	if archived := doc.Get("isArchived"); archived.Exists() && archived.Type != gjson.True && archived.Type != gjson.False {
		return fmt.Errorf("%w: isArchived", ErrInvalidMetaField)
	}
	for _, key := range []string{"createdAt", "updatedAt"} {
		value := doc.Get(key)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}
		if value.Type != gjson.String {
			return fmt.Errorf("%w: %s", ErrInvalidMetaField, key)
		}
		if _, err := time.Parse(time.RFC3339Nano, value.String()); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidMetaField, key)
		}
	}
	return nil
}

func (v *RequestValidator) validateLoginRequest(ctx context.Context, request models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if request.Login == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if len(request.Password) < minPasswordLength || len(request.Password) > maxPasswordLength {
				return ErrInvalidPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
