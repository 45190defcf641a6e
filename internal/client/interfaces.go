// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-field-sync/models"
)

// Client defines the operations the command line exposes.
type Client interface {
	// Run logs in, syncs once and keeps syncing in the background until ctx
	// is done.
	Run(ctx context.Context) error

	// Sync runs one sync pass over every entity type, or over entity alone
	// when it is not empty.
	Sync(ctx context.Context, entity string) (models.SyncRunResult, error)

	// Create, Update and Archive write one record through the server. When
	// the server cannot be reached the write is queued and the error wraps
	// service.ErrQueuedOffline.
	Create(ctx context.Context, entity string, record json.RawMessage) (models.LocalRecord, error)
	Update(ctx context.Context, entity, id string, record json.RawMessage) (models.LocalRecord, error)
	Archive(ctx context.Context, entity, id string) error

	// Pending lists the writes waiting in the offline queue.
	Pending() []models.OfflineQueueItem

	// Ping probes the server.
	Ping(ctx context.Context) models.ConnectionReport

	Close() error
}
