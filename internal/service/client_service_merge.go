// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/models"
)

// MergeEngine pulls entity deltas from the server and applies them to the
// local store. The server always wins: a pulled record overwrites the local
// one as a whole.
//
// The engine is used through [PullAndMerge] and [PullAndMergeWithChildren],
// which carry the record type as a type parameter.
type MergeEngine struct {
	transport adapter.Transport
	records   store.LocalRecordStore
	state     store.SyncStateStore

	now    func() time.Time
	logger *logger.Logger
}

func NewMergeEngine(transport adapter.Transport, records store.LocalRecordStore, state store.SyncStateStore, logger *logger.Logger) *MergeEngine {
	return &MergeEngine{
		transport: transport,
		records:   records,
		state:     state,
		now:       time.Now,
		logger:    logger,
	}
}

// PullAndMerge fetches every record of entity changed since its watermark,
// upserts them locally and advances the watermark to the time the pull
// started. It returns the number of records applied.
func PullAndMerge[T models.Entity](ctx context.Context, e *MergeEngine, entity models.EntityType) (int, error) {
	return pull(ctx, e, entity, func(item T) (models.LocalRecord, error) {
		return localRecordOf(entity, item)
	})
}

// PullAndMergeWithChildren is PullAndMerge for parents that embed a child
// collection. The children returned by childrenOf replace the stored children
// of each parent; childFkOf yields a child's parent id, the parent's own id
// is used when it is empty.
func PullAndMergeWithChildren[T, C models.Entity](
	ctx context.Context,
	e *MergeEngine,
	entity models.EntityType,
	childrenOf func(T) []C,
	childFkOf func(C) string,
) (int, error) {
	childType, field, _, ok := entity.Children()
	if !ok {
		return 0, fmt.Errorf("%w: %s has no child collection", ErrUnknownEntity, entity)
	}

	return pull(ctx, e, entity, func(item T) (models.LocalRecord, error) {
		parent, err := localRecordOf(entity, item)
		if err != nil {
			return models.LocalRecord{}, err
		}
		if parent.Payload, err = withoutField(parent.Payload, field); err != nil {
			return models.LocalRecord{}, fmt.Errorf("error encoding %s record: %w", entity, err)
		}

		parent.ChildType = childType
		for _, c := range childrenOf(item) {
			child, err := localRecordOf(childType, c)
			if err != nil {
				return models.LocalRecord{}, err
			}
			child.ParentID = childFkOf(c)
			if child.ParentID == "" {
				child.ParentID = parent.ID
			}
			parent.Children = append(parent.Children, child)
		}
		return parent, nil
	})
}

func pull[T models.Entity](ctx context.Context, e *MergeEngine, entity models.EntityType, toLocal func(T) (models.LocalRecord, error)) (int, error) {
	log := logger.FromContext(ctx).With().Str("entity", entity.String()).Logger()

	// captured before the request so writes landing mid-pull fall into the
	// next window
	start := e.now().UTC()

	query := url.Values{}
	since, ok, err := e.state.Watermark(entity)
	if err != nil {
		return 0, fmt.Errorf("error reading %s watermark: %w", entity, err)
	}
	if ok {
		query.Set("since", since.UTC().Format(time.RFC3339Nano))
	}

	var envelope models.SyncEnvelope[T]
	if err = e.transport.Get(ctx, entity.Path(), query, &envelope); err != nil {
		log.Err(err).Str("func", "MergeEngine.pull").Msg("delta request failed")
		return 0, fmt.Errorf("error pulling %s: %w", entity, err)
	}

	batch := make([]models.LocalRecord, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		record, err := toLocal(item)
		if err != nil {
			return 0, fmt.Errorf("error converting %s record: %w", entity, err)
		}
		batch = append(batch, record)
	}

	if len(batch) > 0 {
		if err = e.records.ApplyDelta(ctx, batch); err != nil {
			log.Err(err).Str("func", "MergeEngine.pull").Int("records", len(batch)).Msg("applying delta failed")
			return 0, fmt.Errorf("error applying %s delta: %w", entity, err)
		}
	}

	if err = e.state.AdvanceWatermark(entity, start); err != nil {
		return 0, fmt.Errorf("error advancing %s watermark: %w", entity, err)
	}

	log.Debug().
		Int("records", len(batch)).
		Int("total", envelope.TotalCount).
		Bool("full", !ok).
		Msg("delta merged")

	return len(batch), nil
}
