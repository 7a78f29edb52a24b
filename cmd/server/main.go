package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pranavdhawann/weather-dashboard/internal/api"
	"github.com/pranavdhawann/weather-dashboard/internal/archive"
	"github.com/pranavdhawann/weather-dashboard/internal/cities"
	"github.com/pranavdhawann/weather-dashboard/internal/config"
	"github.com/pranavdhawann/weather-dashboard/internal/database"
	"github.com/pranavdhawann/weather-dashboard/internal/ingest"
	"github.com/pranavdhawann/weather-dashboard/internal/notify"
	"github.com/pranavdhawann/weather-dashboard/internal/observability"
	"github.com/pranavdhawann/weather-dashboard/internal/openweather"
	"github.com/pranavdhawann/weather-dashboard/internal/scheduler"
	"github.com/pranavdhawann/weather-dashboard/internal/store"
	"github.com/pranavdhawann/weather-dashboard/internal/weather"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Database
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("run migrations", "error", err)
		os.Exit(1) //nolint:gocritic // startup exits before meaningful defers
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	registry := cities.DefaultRegistry()
	normalizer := cities.NewNormalizer(registry)
	s := store.New(pool, normalizer, metrics)
	readiness := database.NewPoolReadiness(pool)

	// DB pool stats collector
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stat := pool.Stat()
				metrics.DBPoolConnections.WithLabelValues("idle").Set(float64(stat.IdleConns()))
				metrics.DBPoolConnections.WithLabelValues("active").Set(float64(stat.AcquiredConns()))
				metrics.DBPoolConnections.WithLabelValues("total").Set(float64(stat.TotalConns()))
			}
		}
	}()

	// Weather provider clients. Forecast calls get their own read timeout
	// since the dashboard waits on them interactively.
	provider := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.ProviderConnectTimeout, cfg.ProviderReadTimeout)
	forecaster := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.ProviderConnectTimeout, cfg.ForecastTimeout)

	// Alert notifications over Kafka
	publisher := notify.NewPublisher(cfg.KafkaBrokers, cfg.AlertsTopic, cfg.AlertsSubject, metrics, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("alert publisher close", "error", err)
		}
	}()

	// Collection pipeline and schedule
	coldStore := archive.NewFSWriter(cfg.ArchiveDir)
	pipeline := ingest.New(cfg.Cities, provider, s, coldStore, publisher, normalizer, metrics, logger)

	sched := scheduler.New(pipeline, cfg.CollectInterval, logger)
	if err := sched.Start(); err != nil {
		logger.Error("start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// HTTP API
	svc := weather.NewService(s, forecaster, registry, normalizer, logger)
	handler := api.NewHandler(svc, pipeline, logger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(api.ConcurrencyLimit(8))
	handler.Register(r)
	r.Get("/healthz", observability.LivenessHandler())
	r.Get("/readyz", observability.ReadinessHandler(readiness))
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           http.TimeoutHandler(r, 25*time.Second, `{"error":"request timeout"}`),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("server started", "port", cfg.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
