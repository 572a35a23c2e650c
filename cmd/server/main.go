package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/handler"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/server"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/spf13/pflag"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	flags := config.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	log := logger.NewLogger("record-store")
	cfg, err := config.GetServerConfig(flags)
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	log.Debug().
		Str("address", cfg.Server.HTTPAddress).
		Dur("request_timeout", cfg.Server.RequestTimeout).
		Int("page_size", cfg.Server.PageSize).
		Bool("integrity_check", cfg.App.HashKey != "").
		Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg, log)
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

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
