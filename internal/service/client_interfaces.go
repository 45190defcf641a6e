package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
)

// OfflineQueue holds writes that could not reach the server. The queue is
// persisted after every change so it survives restarts.
type OfflineQueue interface {
	// Enqueue appends item in FIFO position. An empty item.ID is replaced by
	// a new identifier, which doubles as the replay Idempotency-Key.
	Enqueue(ctx context.Context, item models.OfflineQueueItem) error

	PendingCount() int

	// GetPending returns a copy of the queued items in replay order.
	GetPending() []models.OfflineQueueItem

	// ProcessQueue replays every queued item once, in order, and returns how
	// many were accepted by the server. Items that keep failing are dropped
	// once they reach the retry ceiling.
	ProcessQueue(ctx context.Context) (int, error)
}

// SyncOrchestrator runs full and per-entity sync passes.
type SyncOrchestrator interface {
	// SyncAll drains the offline queue and pulls every entity type in
	// [models.SyncOrder]. The error is non-nil when the run could not start
	// ([ErrSyncInProgress], [ErrNotAuthenticated]) or when authentication
	// failed mid-run; in the latter case the run stops and the result still
	// reports what synced before. Other per-entity failures are only counted
	// in the result.
	SyncAll(ctx context.Context) (models.SyncRunResult, error)

	// SyncEntity pulls one entity type and never returns an error; failures
	// are described by the result.
	SyncEntity(ctx context.Context, entity models.EntityType) models.SyncRunResult

	// OnProgress registers a listener called after every step of a run.
	OnProgress(fn func(models.SyncProgress))

	LastSyncTime() (time.Time, bool)
}

// SyncScheduler triggers SyncAll periodically in the background.
type SyncScheduler interface {
	// Start launches the timer. It is a no-op when the scheduler is already
	// running or the interval is zero.
	Start(ctx context.Context)

	// Stop cancels the pending wait and blocks until the loop has exited. A
	// sync run already in flight completes first.
	Stop()

	// SetInterval changes the period, restarting a running timer. Zero stops
	// the scheduler.
	SetInterval(d time.Duration)

	Running() bool

	// Run starts the scheduler and blocks until ctx is done.
	Run(ctx context.Context) error
}

// RecordWriter sends local edits to the server and mirrors the accepted state
// into the local store. When the server cannot be reached the write is queued
// and [ErrQueuedOffline] is returned.
type RecordWriter interface {
	// Create sends record as a new entity and returns the stored form.
	Create(ctx context.Context, entity models.EntityType, record any) (models.LocalRecord, error)

	// Update sends a full overwrite of record id. record must carry the
	// updatedAt it was based on; a stale write yields *adapter.ConflictError.
	Update(ctx context.Context, entity models.EntityType, id string, record any) (models.LocalRecord, error)

	// Archive soft-deletes record id on the server.
	Archive(ctx context.Context, entity models.EntityType, id string) error
}
