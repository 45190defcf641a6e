package service

import (
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
)

type ClientServices struct {
	Queue        OfflineQueue
	Engine       *MergeEngine
	Orchestrator SyncOrchestrator
	Scheduler    SyncScheduler
	Writer       RecordWriter
}

func NewClientServices(storages *store.ClientStorages, transport adapter.Transport, cfg config.ClientWorkers, logger *logger.Logger) (*ClientServices, error) {
	queue, err := NewOfflineQueue(transport, storages.State, storages.Records, cfg.QueueMaxRetries, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating offline queue: %w", err)
	}

	engine := NewMergeEngine(transport, storages.Records, storages.State, logger)
	orchestrator := NewSyncOrchestrator(transport, queue, engine, storages.State, logger)

	return &ClientServices{
		Queue:        queue,
		Engine:       engine,
		Orchestrator: orchestrator,
		Scheduler:    NewSyncScheduler(orchestrator, transport, cfg.SyncInterval, logger),
		Writer:       NewRecordWriter(transport, queue, storages.Records, logger),
	}, nil
}
