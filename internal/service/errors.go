package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrUnknownEntity         = errors.New("unknown entity type")
	ErrMalformedPayload      = errors.New("malformed record payload")
	ErrMissingUpdatedAt      = errors.New("updatedAt is required for an update")
	ErrRecordIDMismatch      = errors.New("record id does not match the resource id")
	ErrIdempotencyKeyTooLong = errors.New("idempotency key is too long")
)

// Client-side errors.
var (
	// ErrSyncInProgress is returned by SyncAll when another run holds the
	// orchestrator.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNotAuthenticated is returned when a sync is requested before login.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrQueuedOffline is returned by RecordWriter when the server could not be
	// reached and the write was stored in the offline queue for replay.
	ErrQueuedOffline = errors.New("server unreachable, write queued for replay")

	ErrNoSyncerForEntity = errors.New("no syncer registered for entity type")
)
