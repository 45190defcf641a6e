// Package utils provides helpers shared by the client and the server:
// typed context keys, HMAC body hashing, JSON responses, the resty client
// wrapper, JWT handling and UUID generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-field-sync/models"
)

// contextKey keeps this package's context values apart from string keys set
// elsewhere.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey holds the authenticated user id (int64) put there by the
	// server's auth middleware.
	UserIDCtxKey = contextKey("userID")

	// EntityCtxKey holds the [models.EntityType] a record route serves.
	EntityCtxKey = contextKey("entity")
)

// GetUserIDFromContext returns the authenticated user id. ok is false when
// the value is missing or is not an int64.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// WithEntity returns a copy of ctx bound to one entity type.
func WithEntity(ctx context.Context, entity models.EntityType) context.Context {
	return context.WithValue(ctx, EntityCtxKey, entity)
}

// GetEntityFromContext returns the entity type bound with [WithEntity].
func GetEntityFromContext(ctx context.Context) (models.EntityType, bool) {
	entity, ok := ctx.Value(EntityCtxKey).(models.EntityType)
	return entity, ok
}
