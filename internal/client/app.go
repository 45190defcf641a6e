package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/workers"
	"github.com/MKhiriev/go-field-sync/models"
)

type App struct {
	auth      config.ClientAuth
	storages  *store.ClientStorages
	transport adapter.Transport
	services  *service.ClientServices
	workers   *workers.Workers

	closeOnce sync.Once
	closeErr  error

	logger *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create client storages: %w", err)
	}

	transport, err := adapter.NewHTTPTransport(cfg.Adapter, cfg.App, logger)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create transport: %w", err)
	}

	services, err := service.NewClientServices(storages, transport, cfg.Workers, logger)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create client services: %w", err)
	}

	services.Orchestrator.OnProgress(func(p models.SyncProgress) {
		logger.Debug().
			Str("step", string(p.Step)).
			Str("entity", p.Entity.String()).
			Int("index", p.Index).
			Int("total", p.Total).
			Int("synced", p.Synced).
			Int("errors", p.Errors).
			Msg("sync progress")
	})

	return &App{
		auth:      cfg.Auth,
		storages:  storages,
		transport: transport,
		services:  services,
		workers:   workers.NewClientWorkers(services),
		logger:    logger,
	}, nil
}

func (a *App) login(ctx context.Context) error {
	if a.transport.IsAuthenticated() {
		return nil
	}
	if a.auth.Login == "" || a.auth.Password == "" {
		return ErrMissingCredentials
	}
	return a.transport.Login(ctx, a.auth.Login, a.auth.Password)
}

func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)
	if err := a.login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	result, err := a.services.Orchestrator.SyncAll(ctx)
	if err != nil {
		// the scheduler retries on its next tick
		a.logger.Warn().Err(err).Msg("initial sync failed")
	} else {
		a.logger.Info().
			Bool("succeeded", result.Succeeded).
			Int("records", result.EntitiesSynced).
			Int("errors", result.Errors).
			Msg("initial sync finished")
	}

	a.logger.Info().Int("pending", a.services.Queue.PendingCount()).Msg("client is running")
	return a.workers.Run(ctx)
}

func (a *App) Sync(ctx context.Context, entity string) (models.SyncRunResult, error) {
	ctx = a.logger.WithContext(ctx)
	if err := a.login(ctx); err != nil {
		return models.SyncRunResult{}, fmt.Errorf("login: %w", err)
	}

	if entity == "" {
		return a.services.Orchestrator.SyncAll(ctx)
	}

	entityType, err := parseEntity(entity)
	if err != nil {
		return models.SyncRunResult{}, err
	}
	return a.services.Orchestrator.SyncEntity(ctx, entityType), nil
}

// writeSession logs in before a write. An unreachable server is not an
// error here: the write itself then lands in the offline queue.
func (a *App) writeSession(ctx context.Context) error {
	err := a.login(ctx)
	if err == nil {
		return nil
	}
	if !adapter.IsTransient(err) {
		return fmt.Errorf("login: %w", err)
	}
	a.logger.Warn().Err(err).Msg("server unreachable, writing offline")
	return nil
}

func (a *App) Create(ctx context.Context, entity string, record json.RawMessage) (models.LocalRecord, error) {
	ctx = a.logger.WithContext(ctx)
	entityType, err := parseEntity(entity)
	if err != nil {
		return models.LocalRecord{}, err
	}
	if err = a.writeSession(ctx); err != nil {
		return models.LocalRecord{}, err
	}
	return a.services.Writer.Create(ctx, entityType, record)
}

func (a *App) Update(ctx context.Context, entity, id string, record json.RawMessage) (models.LocalRecord, error) {
	ctx = a.logger.WithContext(ctx)
	entityType, err := parseEntity(entity)
	if err != nil {
		return models.LocalRecord{}, err
	}
	if err = a.writeSession(ctx); err != nil {
		return models.LocalRecord{}, err
	}
	return a.services.Writer.Update(ctx, entityType, id, record)
}

func (a *App) Archive(ctx context.Context, entity, id string) error {
	ctx = a.logger.WithContext(ctx)
	entityType, err := parseEntity(entity)
	if err != nil {
		return err
	}
	if err = a.writeSession(ctx); err != nil {
		return err
	}
	return a.services.Writer.Archive(ctx, entityType, id)
}

func (a *App) Pending() []models.OfflineQueueItem {
	return a.services.Queue.GetPending()
}

func (a *App) Ping(ctx context.Context) models.ConnectionReport {
	return a.transport.TestConnection(a.logger.WithContext(ctx))
}

// Close logs out and closes the local stores. Later calls return the first
// result.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.transport.Logout()
		a.closeErr = a.storages.Close()
	})
	return a.closeErr
}

// parseEntity accepts an entity type name ("MaterialLists") or its resource
// path ("material-lists").
func parseEntity(name string) (models.EntityType, error) {
	if entity, err := models.ParseEntityType(name); err == nil {
		return entity, nil
	}
	entity, err := models.EntityTypeFromPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", service.ErrUnknownEntity, name)
	}
	return entity, nil
}
