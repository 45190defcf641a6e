// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-field-sync/models"
	bolt "go.etcd.io/bbolt"
)

var stateBucket = []byte("sync_state")

const (
	watermarkKeyPrefix = "sync_last_"
	lastFullSyncKey    = "sync_last_full"
	offlineQueueKey    = "sync_offline_queue"
)

// BoltStateStore is the bbolt-backed [SyncStateStore].
type BoltStateStore struct {
	db *bolt.DB
}

// NewBoltStateStore opens (or creates) the state file at path.
func NewBoltStateStore(path string) (*BoltStateStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create state bucket: %w", err)
	}

	return &BoltStateStore{db: db}, nil
}

func watermarkKey(entity models.EntityType) []byte {
	return []byte(watermarkKeyPrefix + string(entity))
}

func (s *BoltStateStore) Watermark(entity models.EntityType) (time.Time, bool, error) {
	return s.readTime(watermarkKey(entity))
}

func (s *BoltStateStore) AdvanceWatermark(entity models.EntityType, t time.Time) error {
	key := watermarkKey(entity)

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(stateBucket)

		if raw := b.Get(key); raw != nil {
			current, err := time.Parse(time.RFC3339Nano, string(raw))
			if err == nil && current.After(t) {
				return nil
			}
		}

		return b.Put(key, []byte(t.UTC().Format(time.RFC3339Nano)))
	})
}

func (s *BoltStateStore) LastFullSync() (time.Time, bool, error) {
	return s.readTime([]byte(lastFullSyncKey))
}

func (s *BoltStateStore) SetLastFullSync(t time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put([]byte(lastFullSyncKey), []byte(t.UTC().Format(time.RFC3339Nano)))
	})
}

func (s *BoltStateStore) LoadQueue() ([]models.OfflineQueueItem, error) {
	var items []models.OfflineQueueItem

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(stateBucket).Get([]byte(offlineQueueKey))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("%w: %w", ErrEncodingState, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s *BoltStateStore) SaveQueue(items []models.OfflineQueueItem) error {
	if items == nil {
		items = []models.OfflineQueueItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingState, err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put([]byte(offlineQueueKey), raw)
	})
}

// Close releases the file lock.
func (s *BoltStateStore) Close() error {
	return s.db.Close()
}

func (s *BoltStateStore) readTime(key []byte) (time.Time, bool, error) {
	var (
		t  time.Time
		ok bool
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(stateBucket).Get(key)
		if raw == nil {
			return nil
		}

		parsed, err := time.Parse(time.RFC3339Nano, string(raw))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncodingState, err)
		}
		t, ok = parsed, true
		return nil
	})

	return t, ok, err
}
