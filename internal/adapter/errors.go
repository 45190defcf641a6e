package adapter

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
)

var (
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrBadRequest          = errors.New("bad request")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
	ErrGatewayTimeout      = errors.New("gateway timeout")

	// ErrUnreachable wraps connection-level failures (refused, reset, DNS,
	// client timeout).
	ErrUnreachable = errors.New("server unreachable")

	ErrInvalidBaseURL = errors.New("invalid server url")
)

// ConflictError is returned when the server rejects a write because the
// stored record is newer than the one the client based its write on.
type ConflictError struct {
	Descriptor models.ConflictDescriptor
}

func (e *ConflictError) Error() string {
	d := e.Descriptor
	return fmt.Sprintf("%s: %s %s: %s (server %s, client %s)",
		ErrConflict, d.EntityType, d.EntityID, d.Message,
		d.ServerUpdatedAt.Format(time.RFC3339), d.ClientUpdatedAt.Format(time.RFC3339))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// TransientError is returned once every attempt of a request failed with a
// transient condition.
type TransientError struct {
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err means the server could not be reached or
// kept answering with a transient status. Such writes belong in the offline
// queue.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient) || errors.Is(err, ErrUnreachable)
}
