package server

import (
	"errors"
	"net"

	"github.com/MKhiriev/go-field-sync/internal/config"
	myGRPC "github.com/MKhiriev/go-field-sync/internal/handler/grpc"
	"github.com/MKhiriev/go-field-sync/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler
	address string

	server *grpc.Server

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	s := grpc.NewServer()
	handler.Register(s)

	return &grpcServer{
		handler: handler,
		address: cfg.GRPCAddress,
		server:  s,
		logger:  logger,
	}
}

func (g *grpcServer) RunServer() error {
	listener, err := net.Listen("tcp", g.address)
	if err != nil {
		return err
	}

	g.logger.Info().Str("address", g.address).Msg("Launching GRPC server")
	g.handler.SetServing()

	if err = g.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.handler.Shutdown()
	g.server.GracefulStop()
}
