package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalRecordStore is the client's on-device copy of pulled records.
type LocalRecordStore interface {
	// ApplyDelta upserts every record in one transaction. For records with a
	// ChildType the stored children of that parent are replaced by
	// record.Children. Either every record is applied or none is.
	ApplyDelta(ctx context.Context, records []models.LocalRecord) error

	Get(ctx context.Context, entity models.EntityType, id string) (models.LocalRecord, error)
	List(ctx context.Context, entity models.EntityType, includeArchived bool) ([]models.LocalRecord, error)
	ListChildren(ctx context.Context, childType models.EntityType, parentID string) ([]models.LocalRecord, error)
	Count(ctx context.Context, entity models.EntityType) (int, error)
}

// SyncStateStore keeps the client's small key-value sync state: per-entity
// watermarks, the last full sync time and the serialized offline queue.
type SyncStateStore interface {
	// Watermark returns the last successful pull start time of entity.
	// ok is false when the entity was never synced.
	Watermark(entity models.EntityType) (t time.Time, ok bool, err error)

	// AdvanceWatermark stores t unless the stored watermark is already later.
	AdvanceWatermark(entity models.EntityType, t time.Time) error

	LastFullSync() (t time.Time, ok bool, err error)
	SetLastFullSync(t time.Time) error

	LoadQueue() ([]models.OfflineQueueItem, error)
	SaveQueue(items []models.OfflineQueueItem) error
}
