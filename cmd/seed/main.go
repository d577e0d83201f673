package main

import (
	"context"
	"database/sql"
	"flag"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"golang.org/x/sync/semaphore"

	"nevado_reviews/internal/adapters/observability"
	"nevado_reviews/internal/domain"
	"nevado_reviews/internal/shared"
	mysqlrepo "nevado_reviews/internal/storage/mysql"
)

// Seeds an empty database with the sample reviews and the default system
// configuration. Safe to run repeatedly; existing rows are left alone.
func main() {
	workers := flag.Int64("workers", 4, "concurrent insert workers")
	flag.Parse()

	cfg := shared.Load()
	logger := observability.NewLogger(cfg.AppEnv)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("mysql open")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal().Err(err).Msg("mysql ping")
	}

	repo := mysqlrepo.New(db)
	sem := semaphore.NewWeighted(*workers)

	var seeded, skipped atomic.Int64
	for _, rv := range shared.DefaultReviews() {
		rv := rv
		if err := sem.Acquire(ctx, 1); err != nil {
			logger.Fatal().Err(err).Msg("acquire")
		}
		go func() {
			defer sem.Release(1)
			if _, err := repo.Get(ctx, rv.ID); err == nil {
				skipped.Add(1)
				return
			}
			if err := repo.Insert(ctx, rv); err != nil {
				logger.Error().Err(err).Str("id", rv.ID).Msg("seed review")
				return
			}
			seeded.Add(1)
		}()
	}
	if err := sem.Acquire(ctx, *workers); err != nil {
		logger.Fatal().Err(err).Msg("drain")
	}

	defaults := []domain.ConfigEntry{
		{Key: domain.ConfigMaintenanceMode, Value: "false", Description: "Modo de mantenimiento del sitio"},
		{Key: domain.ConfigMaxReviewsPerPage, Value: "50", Description: "Máximo de reseñas por página"},
		{Key: domain.ConfigAllowGuestUploads, Value: "false", Description: "Permitir subida de fotos por huéspedes"},
		{Key: domain.ConfigAutoApprove, Value: "true", Description: "Aprobar reseñas automáticamente"},
	}
	now := time.Now().UTC()
	for _, d := range defaults {
		if _, err := repo.GetConfig(ctx, d.Key); err == nil {
			continue
		}
		d.UpdatedAt = now
		if err := repo.UpsertConfig(ctx, d); err != nil {
			logger.Error().Err(err).Str("key", d.Key).Msg("seed config")
		}
	}

	logger.Info().
		Int64("reviews_seeded", seeded.Load()).
		Int64("reviews_skipped", skipped.Load()).
		Msg("seed complete")
}
