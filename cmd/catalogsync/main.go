package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"booking_relay/internal/adapters/observability"
	"booking_relay/internal/app"
	"booking_relay/internal/catalog"
	"booking_relay/internal/domain"
	"booking_relay/internal/shared"
	mysqlrepo "booking_relay/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var src domain.CatalogSource = catalog.EmbeddedSource{}
	if cfg.CatalogDir != "" {
		src = catalog.FileSource{Dir: cfg.CatalogDir}
	}
	log.Info().
		Str("dir", cfg.CatalogDir).
		Int("workers", cfg.SyncWorkers).
		Msg("catalog sync starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	rep, err := app.NewCatalogSyncService(src, repo).Sync(ctx, cfg.SyncWorkers)
	if err != nil {
		log.Error().Err(err).Int("written", rep.Written).Int("failed", rep.Failed).Msg("catalog sync finished with errors")
		return
	}
	log.Info().Int("written", rep.Written).Msg("catalog sync completed")
}
