package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/handler"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"golang.org/x/sync/errgroup"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

func (s *server) RunServer() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return s.Run(ctx)
}

func (s *server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	// launch all created servers
	if s.httpServer != nil {
		g.Go(s.httpServer.RunServer)
	}
	if s.gRPCServer != nil {
		g.Go(s.gRPCServer.RunServer)
	}

	// a stop signal or a failed transport stops the rest
	g.Go(func() error {
		<-gCtx.Done()
		s.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Err(err).Msg("server stopped with error")
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown() {
	// finish HTTP server first so that health stays SERVING while requests drain
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}

	if s.gRPCServer != nil {
		s.gRPCServer.Shutdown()
	}
}
