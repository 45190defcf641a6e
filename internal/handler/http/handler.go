package http

import (
	"time"

	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/utils"
)

type Handler struct {
	services *service.Services

	// hasher verifies the HashSHA256 header of request bodies; nil disables
	// the check.
	hasher *utils.Hasher

	// requestTimeout bounds every request context; zero means no limit.
	requestTimeout time.Duration

	logger *logger.Logger
}

// Option configures optional Handler behavior.
type Option func(*Handler)

// WithHashKey enables request integrity checks with key.
func WithHashKey(key string) Option {
	return func(h *Handler) {
		h.hasher = utils.NewHasher(key)
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.requestTimeout = d
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Bool("integrity_check", h.hasher != nil).Msg("http handler created")
	return h
}
