package validators

// Field name constants used to restrict validation to a subset of checks.
const (
	// FieldEntityType requires a top-level entity type.
	FieldEntityType = "entity_type"

	// FieldID requires a non-empty resource id.
	FieldID = "id"

	// FieldPayload requires a JSON object whose identity fields, when
	// present, have the right JSON types.
	FieldPayload = "payload"

	// FieldUpdatedAt requires an RFC 3339 updatedAt in the payload.
	FieldUpdatedAt = "updated_at"

	// FieldPayloadID requires the payload id, if any, to equal the resource id.
	FieldPayloadID = "payload_id"

	// FieldChildren requires the child collection, if any, to be an array of
	// objects.
	FieldChildren = "children"

	// FieldIdempotencyKey bounds the optional idempotency key.
	FieldIdempotencyKey = "idempotency_key"

	FieldLogin    = "login"
	FieldPassword = "password"
)

// maxIdempotencyKeyLength matches the idempotency_keys column.
const maxIdempotencyKeyLength = 128

// bcrypt ignores input after 72 bytes.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)
