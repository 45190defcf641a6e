package grpc

import (
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Handler is the root gRPC transport handler. It serves the standard
// grpc.health.v1 service so that infrastructure probes can check the sync
// server without an HTTP client.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. Every service starts NOT_SERVING until
// [Handler.SetServing] is called.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

func (h *Handler) SetServing() {
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.logger.Info().Msg("gRPC health status set to SERVING")
}

// Shutdown reports NOT_SERVING to every watcher and refuses later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
