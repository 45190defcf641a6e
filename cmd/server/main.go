package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/handler"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/server"
	"github.com/MKhiriev/go-field-sync/internal/service"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := printBuildInfo()

	log := logger.NewLogger("field-sync-server")

	flagCfg, err := config.ParseFlags(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing flags")
	}

	cfg, err := config.GetServerConfig(flagCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Dur("request_timeout", cfg.Server.RequestTimeout).
		Bool("integrity_check", cfg.App.HashKey != "").
		Msg("received configs")

	ctx := log.WithContext(context.Background())

	storages, err := store.NewStorages(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		storages.Close()
		os.Exit(1)
	}
}

func printBuildInfo() models.AppBuildInfo {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(info)
	return info
}
