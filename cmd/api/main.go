package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitbook/internal/api"
	"fitbook/internal/config"
	"fitbook/internal/database"
	"fitbook/internal/domain"
	"fitbook/internal/events"
	"fitbook/internal/export"
	"fitbook/internal/logging"
	"fitbook/internal/metrics"
	"fitbook/internal/repository"
	"fitbook/internal/service"
	"fitbook/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	cache := initClassCache(cfg, &logger)

	eventBus := events.NewEventBus()
	subscribeMetrics(eventBus)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exportWorker := initExports(ctx, cfg, db, &logger)

	var exporter domain.ExportEnqueuer
	if exportWorker != nil {
		exporter = exportWorker
	}

	classService := service.NewClassService(db, cache, eventBus, &logger)
	instructorService := service.NewInstructorService(db, &logger)
	bookingService := service.NewBookingService(db, eventBus, exporter, cache, &logger)

	httpServer := api.NewHTTPServer(cfg.API, classService, instructorService, bookingService, &logger)

	startMetrics(ctx, cfg, &logger)

	return serveHTTP(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initClassCache собирает кэш списка занятий: redis как primary,
// in-memory как fallback. Без redis работаем только на памяти.
func initClassCache(cfg *config.Config, logger *zerolog.Logger) domain.ClassCache {
	ttl := time.Duration(cfg.Redis.CacheTTL) * time.Second
	memory := repository.NewMemoryClassCache(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory class cache")
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory cache")
		return memory
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return repository.NewFailoverClassCache(repository.NewRedisClassCache(client, ttl), memory, logger)
}

func initExports(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) *worker.ExportWorker {
	if !cfg.Exports.Enabled {
		return nil
	}

	writer := export.NewXLSXWriter(cfg.Exports.Path, logger)
	exportWorker := worker.NewExportWorker(db, writer, worker.RetryPolicy{}, logger)
	go exportWorker.Start(ctx)

	logger.Info().Str("path", cfg.Exports.Path).Msg("export worker started")
	return exportWorker
}

func subscribeMetrics(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		metrics.IncBookingCreated()
		return nil
	})
	bus.Subscribe(events.EventBookingCancelled, func(event *events.Event) error {
		metrics.IncBookingCancelled()
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serveHTTP(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
