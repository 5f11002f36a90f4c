package main

import (
	"context"
	"fmt"

	"github.com/peerhub/peerhub/internal/config"
	"github.com/peerhub/peerhub/internal/github"
	"github.com/peerhub/peerhub/internal/handler"
	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/notify"
	"github.com/peerhub/peerhub/internal/server"
	"github.com/peerhub/peerhub/internal/service"
	"github.com/peerhub/peerhub/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("peerhub-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to postgres")
	}

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	redisClient, err := store.NewConnectRedis(ctx, cfg.Storage.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to redis")
	}

	storages := store.NewStorages(db, redisClient, log)

	githubClient := github.New(cfg.GitHub, log)
	notifier := notify.NewEmailNotifier(cfg.Email, log)

	services := service.NewServices(*storages, cfg, githubClient, notifier, log)

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
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
