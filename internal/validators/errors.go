package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrInvalidRecordID   = errors.New("invalid record id")
	ErrPayloadNotObject  = errors.New("record payload must be a JSON object")
	ErrInvalidMetaField  = errors.New("invalid identity field in payload")
	ErrMissingUpdatedAt  = errors.New("updatedAt is required")
	ErrRecordIDMismatch  = errors.New("payload id does not match the resource id")
	ErrInvalidChildren   = errors.New("child collection must be an array of objects")
	ErrInvalidIdemKey    = errors.New("invalid idempotency key")
	ErrEmptyLogin        = errors.New("login is required")
	ErrInvalidPassword   = errors.New("password must be between 8 and 72 bytes")
)
