package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"nevado_reviews/internal/adapters/blob"
	httpserver "nevado_reviews/internal/adapters/http_server"
	"nevado_reviews/internal/adapters/observability"
	redisad "nevado_reviews/internal/adapters/redis"
	"nevado_reviews/internal/app"
	"nevado_reviews/internal/shared"
	mysqlrepo "nevado_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()
	logger := observability.NewLogger(cfg.AppEnv)

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("mysql open")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		// The store may still be coming up; the fallback reviews keep list
		// reads alive in the meantime.
		logger.Warn().Err(err).Msg("mysql not reachable at startup")
	}
	cancel()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
	defer rdb.Close()
	cache := redisad.NewWithClient(rdb)
	counters := redisad.NewCounterStore(rdb)

	blobs, err := blob.New(blob.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		Secure:    cfg.MinioSecure,
		BaseURL:   cfg.PhotoBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("blob store")
	}

	repo := mysqlrepo.New(db)
	reviews := app.NewReviewService(repo, cache, shared.DefaultReviews)
	photos := app.NewPhotoService(repo, blobs, cache)
	stats := app.NewStatsService(repo, repo, cache, cfg.StatsCacheTTL)
	config := app.NewConfigService(repo)

	srv := httpserver.New(httpserver.Options{
		Limiter: httpserver.NewRateLimiter(counters, cfg.RateLimitMax, cfg.RateLimitWindow),
		Auth:    httpserver.TrustHeaderAuthenticator{},
		Admins:  cfg.AdminEmails,
	})
	srv.MountHandlers(&httpserver.Handlers{
		Reviews: reviews,
		Photos:  photos,
		Stats:   stats,
		Config:  config,
	})

	if cfg.MetricsAddr != "" {
		observability.Serve(cfg.MetricsAddr)
	} else {
		srv.Mount("/metrics", observability.MetricsHandler())
	}

	hs := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("api listening")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
