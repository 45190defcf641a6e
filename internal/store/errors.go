package store

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRecordNotFound is returned when a read, update or archive targets a
	// record that does not exist for the entity type.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordAlreadyExists is returned when a create uses an id that is
	// already taken within the entity type.
	ErrRecordAlreadyExists = errors.New("record already exists")

	// ErrStaleWrite is matched by [StaleWriteError] values.
	ErrStaleWrite = errors.New("stale write rejected")
)

// StaleWriteError is returned when an update claims a prior updatedAt older
// than the stored one. Nothing was written.
type StaleWriteError struct {
	ServerUpdatedAt time.Time
}

func (e *StaleWriteError) Error() string {
	return fmt.Sprintf("%s: stored record updated at %s", ErrStaleWrite, e.ServerUpdatedAt.Format(time.RFC3339Nano))
}

func (e *StaleWriteError) Is(target error) bool {
	return target == ErrStaleWrite
}

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan record row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan record rows")

	// ErrEncodingState is returned when a sync state value cannot be
	// serialized or parsed.
	ErrEncodingState = errors.New("failed to encode sync state")
)
