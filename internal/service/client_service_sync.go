package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/models"
)

// entitySyncer pulls one entity type and returns the number of records applied.
type entitySyncer func(ctx context.Context) (int, error)

// newEntitySyncers binds every entity type of [models.SyncOrder] to its typed
// pull.
func newEntitySyncers(e *MergeEngine) map[models.EntityType]entitySyncer {
	return map[models.EntityType]entitySyncer{
		models.Customers: func(ctx context.Context) (int, error) {
			return PullAndMerge[models.Customer](ctx, e, models.Customers)
		},
		models.Jobs: func(ctx context.Context) (int, error) {
			return PullAndMerge[models.Job](ctx, e, models.Jobs)
		},
		models.Estimates: func(ctx context.Context) (int, error) {
			return PullAndMergeWithChildren(ctx, e, models.Estimates,
				func(p models.Estimate) []models.EstimateLine { return p.Lines },
				func(c models.EstimateLine) string { return c.EstimateID },
			)
		},
		models.Invoices: func(ctx context.Context) (int, error) {
			return PullAndMergeWithChildren(ctx, e, models.Invoices,
				func(p models.Invoice) []models.InvoiceLine { return p.Lines },
				func(c models.InvoiceLine) string { return c.InvoiceID },
			)
		},
		models.MaterialLists: func(ctx context.Context) (int, error) {
			return PullAndMergeWithChildren(ctx, e, models.MaterialLists,
				func(p models.MaterialList) []models.MaterialListItem { return p.Items },
				func(c models.MaterialListItem) string { return c.MaterialListID },
			)
		},
	}
}

type syncOrchestrator struct {
	transport adapter.Transport
	queue     OfflineQueue
	state     store.SyncStateStore

	syncers map[models.EntityType]entitySyncer
	order   []models.EntityType

	// running is claimed with a compare-and-swap so two callers can never
	// both pass the check.
	running atomic.Bool

	mu        sync.RWMutex
	listeners []func(models.SyncProgress)
	lastSync  time.Time

	now    func() time.Time
	logger *logger.Logger
}

// NewSyncOrchestrator creates the orchestrator and restores the last full
// sync time from state.
func NewSyncOrchestrator(transport adapter.Transport, queue OfflineQueue, engine *MergeEngine, state store.SyncStateStore, logger *logger.Logger) SyncOrchestrator {
	o := &syncOrchestrator{
		transport: transport,
		queue:     queue,
		state:     state,
		syncers:   newEntitySyncers(engine),
		order:     models.SyncOrder,
		now:       time.Now,
		logger:    logger,
	}

	if last, ok, err := state.LastFullSync(); err != nil {
		logger.Warn().Err(err).Msg("failed to read last full sync time")
	} else if ok {
		o.lastSync = last
	}

	return o
}

func (o *syncOrchestrator) SyncAll(ctx context.Context) (models.SyncRunResult, error) {
	if !o.transport.IsAuthenticated() {
		return o.failed(ErrNotAuthenticated), ErrNotAuthenticated
	}
	if !o.running.CompareAndSwap(false, true) {
		return o.failed(ErrSyncInProgress), ErrSyncInProgress
	}
	defer o.running.Store(false)

	log := logger.FromContext(ctx)
	total := len(o.order)
	var synced, failures int

	if pending := o.queue.PendingCount(); pending > 0 {
		replayed, err := o.queue.ProcessQueue(ctx)
		if err != nil {
			if isAuthFailure(err) {
				return o.stopped(synced, failures+1, err), fmt.Errorf("sync stopped: %w", err)
			}
			failures++
			log.Err(err).Str("func", "syncOrchestrator.SyncAll").Msg("offline queue drain failed")
		}
		o.emit(models.SyncProgress{
			Step:    models.SyncStepQueue,
			Total:   total,
			Synced:  replayed,
			Errors:  failures,
			Message: fmt.Sprintf("replayed %d of %d queued writes", replayed, pending),
		})
	}

	for i, entity := range o.order {
		count, err := o.syncEntity(ctx, entity)
		progress := models.SyncProgress{
			Step:   models.SyncStepEntity,
			Entity: entity,
			Index:  i + 1,
			Total:  total,
		}
		if err != nil {
			failures++
			progress.Message = err.Error()
			log.Err(err).Str("entity", entity.String()).Msg("entity sync failed")
		} else {
			synced += count
		}
		progress.Synced, progress.Errors = synced, failures
		o.emit(progress)

		if err != nil && isAuthFailure(err) {
			return o.stopped(synced, failures, err), fmt.Errorf("sync stopped: %w", err)
		}
	}

	finished := o.now().UTC()
	o.mu.Lock()
	o.lastSync = finished
	o.mu.Unlock()
	if err := o.state.SetLastFullSync(finished); err != nil {
		log.Err(err).Str("func", "syncOrchestrator.SyncAll").Msg("failed to persist last sync time")
	}

	result := models.SyncRunResult{
		Succeeded:      failures == 0,
		EntitiesSynced: synced,
		Errors:         failures,
		Timestamp:      finished,
	}
	if failures > 0 {
		result.ErrorMessage = fmt.Sprintf("%d of %d steps failed", failures, total)
	}

	o.emit(models.SyncProgress{
		Step:    models.SyncStepComplete,
		Index:   total,
		Total:   total,
		Synced:  synced,
		Errors:  failures,
		Message: fmt.Sprintf("synced %d records with %d errors", synced, failures),
	})

	log.Info().
		Int("records", synced).
		Int("errors", failures).
		Msg("sync run finished")

	return result, nil
}

func (o *syncOrchestrator) SyncEntity(ctx context.Context, entity models.EntityType) models.SyncRunResult {
	if !o.transport.IsAuthenticated() {
		return o.failed(ErrNotAuthenticated)
	}

	count, err := o.syncEntity(ctx, entity)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("entity", entity.String()).Msg("entity sync failed")
		result := o.failed(err)
		result.Errors = 1
		return result
	}

	return models.SyncRunResult{
		Succeeded:      true,
		EntitiesSynced: count,
		Timestamp:      o.now().UTC(),
	}
}

func (o *syncOrchestrator) syncEntity(ctx context.Context, entity models.EntityType) (int, error) {
	syncer, ok := o.syncers[entity]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSyncerForEntity, entity)
	}
	return syncer(ctx)
}

func (o *syncOrchestrator) OnProgress(fn func(models.SyncProgress)) {
	if fn == nil {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.listeners = append(o.listeners, fn)
}

func (o *syncOrchestrator) LastSyncTime() (time.Time, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.lastSync, !o.lastSync.IsZero()
}

func (o *syncOrchestrator) emit(p models.SyncProgress) {
	o.mu.RLock()
	listeners := o.listeners
	o.mu.RUnlock()

	for _, fn := range listeners {
		fn(p)
	}
}

func (o *syncOrchestrator) failed(err error) models.SyncRunResult {
	return models.SyncRunResult{
		ErrorMessage: err.Error(),
		Timestamp:    o.now().UTC(),
	}
}

func (o *syncOrchestrator) stopped(synced, failures int, err error) models.SyncRunResult {
	result := o.failed(err)
	result.EntitiesSynced = synced
	result.Errors = failures
	return result
}

func isAuthFailure(err error) bool {
	return errors.Is(err, adapter.ErrUnauthorized) || errors.Is(err, adapter.ErrNotAuthenticated)
}
