package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-field-sync/internal/adapter"
	"github.com/MKhiriev/go-field-sync/internal/logger"
)

type syncScheduler struct {
	orchestrator SyncOrchestrator
	transport    adapter.Transport
	logger       *logger.Logger

	mu       sync.Mutex
	interval time.Duration
	parent   context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSyncScheduler creates a scheduler that calls orchestrator.SyncAll every
// interval. The scheduler is idle until Start is called; a zero interval keeps
// it disabled.
func NewSyncScheduler(orchestrator SyncOrchestrator, transport adapter.Transport, interval time.Duration, logger *logger.Logger) SyncScheduler {
	if interval < 0 {
		interval = 0
	}
	return &syncScheduler{
		orchestrator: orchestrator,
		transport:    transport,
		interval:     interval,
		logger:       logger,
	}
}

// Start implements SyncScheduler. The loop exits when ctx is cancelled or Stop
// is called.
func (s *syncScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil || s.interval <= 0 {
		return
	}
	s.parent = ctx
	s.startLocked()
}

func (s *syncScheduler) startLocked() {
	jobCtx, cancel := context.WithCancel(s.parent)
	s.cancel = cancel
	s.wg.Add(1)

	go func(interval time.Duration) {
		defer s.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				s.tick(jobCtx)
			}
		}
	}(s.interval)

	s.logger.Info().Dur("interval", s.interval).Msg("background sync started")
}

// tick runs one sync in a context detached from the loop, so Stop never
// interrupts a run in progress.
func (s *syncScheduler) tick(ctx context.Context) {
	if !s.transport.IsAuthenticated() {
		s.logger.Debug().Msg("background sync skipped: not authenticated")
		return
	}

	result, err := s.orchestrator.SyncAll(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.Warn().Err(err).Msg("background sync did not run")
		return
	}

	s.logger.Info().
		Bool("succeeded", result.Succeeded).
		Int("records", result.EntitiesSynced).
		Int("errors", result.Errors).
		Str("message", result.ErrorMessage).
		Msg("background sync finished")
}

// Stop implements SyncScheduler. Safe to call when the scheduler is not
// running.
func (s *syncScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *syncScheduler) SetInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	running := s.cancel != nil
	s.interval = d
	s.mu.Unlock()

	if !running {
		return
	}

	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil && s.interval > 0 {
		s.startLocked()
	}
}

func (s *syncScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancel != nil
}

// Run starts the scheduler and blocks until ctx is done.
func (s *syncScheduler) Run(ctx context.Context) error {
	s.Start(ctx)
	<-ctx.Done()
	s.Stop()
	return nil
}
