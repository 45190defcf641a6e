package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

type offlineQueue struct {
	transport adapter.Transport
	state     store.SyncStateStore
	records   store.LocalRecordStore
	ids       *utils.UUIDGenerator

	// maxRetries is the number of failed replays after which an item is
	// dropped.
	maxRetries int

	mu    sync.Mutex
	items []models.OfflineQueueItem

	// drainMu serializes ProcessQueue; it is never held together with a
	// caller's Enqueue.
	drainMu sync.Mutex

	now    func() time.Time
	logger *logger.Logger
}

// NewOfflineQueue restores the persisted queue from state and returns a queue
// that replays through transport. Records returned by a successful replay are
// written to records.
func NewOfflineQueue(transport adapter.Transport, state store.SyncStateStore, records store.LocalRecordStore, maxRetries int, logger *logger.Logger) (OfflineQueue, error) {
	items, err := state.LoadQueue()
	if err != nil {
		return nil, fmt.Errorf("error loading offline queue: %w", err)
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &offlineQueue{
		transport:  transport,
		state:      state,
		records:    records,
		ids:        utils.NewUUIDGenerator(),
		maxRetries: maxRetries,
		items:      items,
		now:        time.Now,
		logger:     logger,
	}, nil
}

func (q *offlineQueue) Enqueue(ctx context.Context, item models.OfflineQueueItem) error {
	if item.ID == "" {
		item.ID = q.ids.Generate()
	}
	if item.QueuedAt.IsZero() {
		item.QueuedAt = q.now().UTC()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, item)
	if err := q.state.SaveQueue(q.items); err != nil {
		q.items = q.items[:len(q.items)-1]
		logger.FromContext(ctx).Err(err).
			Str("func", "offlineQueue.Enqueue").
			Str("item", item.ID).
			Msg("failed to persist offline queue")
		return fmt.Errorf("error persisting offline queue: %w", err)
	}

	q.logger.Info().
		Str("item", item.ID).
		Str("description", item.Description).
		Int("pending", len(q.items)).
		Msg("write queued for replay")
	return nil
}

func (q *offlineQueue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

func (q *offlineQueue) GetPending() []models.OfflineQueueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	return slices.Clone(q.items)
}

// ProcessQueue replays a snapshot of the queue in FIFO order.
//
// A replayed item leaves the queue on success. A conflict drops it at once,
// since replaying a stale write can never succeed. An authentication failure
// or a cancelled ctx stops the pass and keeps the remaining items untouched.
// Any other failure counts as one attempt; the item is dropped when it
// reaches the retry ceiling.
//
// Items enqueued while the pass runs are kept behind the surviving ones.
func (q *offlineQueue) ProcessQueue(ctx context.Context) (int, error) {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	log := logger.FromContext(ctx)

	q.mu.Lock()
	snapshot := slices.Clone(q.items)
	q.mu.Unlock()

	if len(snapshot) == 0 {
		return 0, nil
	}

	var (
		replayed int
		stopErr  error
		pending  = make([]models.OfflineQueueItem, 0, len(snapshot))
	)

	for _, item := range snapshot {
		if stopErr != nil {
			pending = append(pending, item)
			continue
		}

		err := q.replay(ctx, item)
		switch {
		case err == nil:
			replayed++
		case errors.Is(err, adapter.ErrConflict):
			log.Warn().Err(err).
				Str("item", item.ID).
				Str("description", item.Description).
				Msg("queued write rejected as stale, dropping it")
		case errors.Is(err, adapter.ErrUnauthorized),
			errors.Is(err, adapter.ErrNotAuthenticated),
			ctx.Err() != nil:
			stopErr = err
			pending = append(pending, item)
		default:
			item.RetryCount++
			if item.RetryCount >= q.maxRetries {
				log.Warn().Err(err).
					Str("item", item.ID).
					Str("description", item.Description).
					Int("retries", item.RetryCount).
					Msg("queued write reached the retry ceiling, dropping it")
				continue
			}
			log.Debug().Err(err).
				Str("item", item.ID).
				Int("retries", item.RetryCount).
				Msg("queued write replay failed")
			pending = append(pending, item)
		}
	}

	q.mu.Lock()
	// only this method removes items, so the snapshot is still a prefix
	added := q.items[len(snapshot):]
	q.items = append(pending, added...)
	saveErr := q.state.SaveQueue(q.items)
	left := len(q.items)
	q.mu.Unlock()

	log.Info().
		Int("replayed", replayed).
		Int("pending", left).
		Msg("offline queue processed")

	if saveErr != nil {
		saveErr = fmt.Errorf("error persisting offline queue: %w", saveErr)
	}
	if stopErr != nil {
		stopErr = fmt.Errorf("offline queue replay stopped: %w", stopErr)
	}

	return replayed, errors.Join(stopErr, saveErr)
}

// replay sends item and mirrors the server's answer into the local store.
// A failure to update the local copy is logged only: the next pull repairs it.
func (q *offlineQueue) replay(ctx context.Context, item models.OfflineQueueItem) error {
	var body json.RawMessage
	if err := q.transport.Send(ctx, item.HTTPMethod, item.Endpoint, item.Payload, item.ID, &body); err != nil {
		return err
	}
	if len(body) == 0 || q.records == nil {
		return nil
	}

	entity, err := entityFromEndpoint(item.Endpoint)
	if err != nil {
		return nil
	}
	record, err := localRecordFromJSON(entity, body)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("item", item.ID).Msg("unexpected replay response")
		return nil
	}
	if err = q.records.ApplyDelta(ctx, []models.LocalRecord{record}); err != nil {
		logger.FromContext(ctx).Err(err).Str("item", item.ID).Msg("failed to store replayed record")
	}
	return nil
}

// entityFromEndpoint resolves "invoices/42" to Invoices.
func entityFromEndpoint(endpoint string) (models.EntityType, error) {
	resource, _, _ := strings.Cut(strings.Trim(endpoint, "/"), "/")
	return models.EntityTypeFromPath(resource)
}
