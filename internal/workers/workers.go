package workers

import (
	"context"

	"github.com/MKhiriev/go-field-sync/internal/service"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// NewClientWorkers returns the background workers of the sync client.
func NewClientWorkers(services *service.ClientServices) *Workers {
	return NewWorkers(services.Scheduler)
}

// Run starts every worker and blocks until all of them return. The first
// failure cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(gCtx)
		})
	}
	return g.Wait()
}
