package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
)

type AuthService interface {
	RegisterUser(ctx context.Context, request models.LoginRequest) (models.User, error)
	Login(ctx context.Context, request models.LoginRequest) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// RefreshToken issues a new token for the owner of tokenString, which may
	// be expired for no longer than the configured refresh window.
	RefreshToken(ctx context.Context, tokenString string) (models.Token, error)
}

// RecordService serves the entity resources. Records travel as JSON objects
// carrying the identity fields id, createdAt, updatedAt and isArchived.
type RecordService interface {
	// List returns the records of entity changed at or after since, or all
	// records when since is nil.
	List(ctx context.Context, entity models.EntityType, since *time.Time) (models.SyncEnvelope[json.RawMessage], error)

	// Create stores a new record. A repeated idempotency key returns the
	// record created the first time.
	Create(ctx context.Context, write models.RecordWrite) (json.RawMessage, error)

	// Update overwrites a record. A write based on an outdated updatedAt is
	// rejected with *ConflictError and changes nothing.
	Update(ctx context.Context, write models.RecordWrite) (json.RawMessage, error)

	Archive(ctx context.Context, entity models.EntityType, id string) error
}

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// validation.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
