package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/docsched/medical-booking/internal/api"
	"github.com/docsched/medical-booking/internal/booking"
	"github.com/docsched/medical-booking/internal/config"
	"github.com/docsched/medical-booking/internal/db"
	"github.com/docsched/medical-booking/internal/directory"
	"github.com/docsched/medical-booking/internal/idgen"
	"github.com/docsched/medical-booking/internal/logging"
	"github.com/docsched/medical-booking/internal/observability/metrics"
	redisclient "github.com/docsched/medical-booking/internal/redis"
)

const version = "0.3.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("version", version),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	repo := booking.NewPgRepository(pgPool)
	dir := directory.NewPgDirectory(pgPool)
	ids := idgen.NewPgAllocator(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)

	availabilitySvc := booking.NewAvailabilityService(repo, dir, ids, logger, bookingMetrics)
	appointmentSvc := booking.NewAppointmentService(repo, dir, dir, ids, locker, logger, bookingMetrics)

	router := api.NewRouter(api.RouterConfig{
		Appointments:   appointmentSvc,
		Availabilities: availabilitySvc,
		PgPool:         pgPool,
		Redis:          rdb,
		Log:            logger,
		Metrics:        bookingMetrics,
		Env:            cfg.Env,
		Version:        version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	case <-rootCtx.Done():
	}

	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
