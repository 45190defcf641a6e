package models

import "encoding/json"

// RecordWrite is an inbound create or update of one top-level record.
type RecordWrite struct {
	EntityType EntityType
	// ID is the resource id of an update; empty on create.
	ID      string
	Payload json.RawMessage
	// IdempotencyKey is the client-chosen key of a create, possibly empty.
	IdempotencyKey string
}
