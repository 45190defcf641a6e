package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
)

// ClientStorages groups the client's on-device stores.
type ClientStorages struct {
	// Records is the SQLite copy of pulled records.
	Records LocalRecordStore

	// State holds watermarks and the offline queue.
	State SyncStateStore

	db    *DB
	state *BoltStateStore
}

// NewClientStorages opens the SQLite record store (creating the file if
// needed), applies its migrations and opens the bbolt state file.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(ctx, cfg.LocalDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	state, err := NewBoltStateStore(cfg.StatePath)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ClientStorages{
		Records: NewLocalRecordRepository(db, logger),
		State:   state,
		db:      db,
		state:   state,
	}, nil
}

// Close closes both stores.
func (s *ClientStorages) Close() error {
	return errors.Join(s.db.Close(), s.state.Close())
}
