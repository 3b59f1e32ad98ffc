package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/novadental/booking-platform/internal/api/router"
	"github.com/novadental/booking-platform/internal/appointments"
	"github.com/novadental/booking-platform/internal/auth"
	"github.com/novadental/booking-platform/internal/availability"
	"github.com/novadental/booking-platform/internal/booking"
	appconfig "github.com/novadental/booking-platform/internal/config"
	"github.com/novadental/booking-platform/internal/notify"
	"github.com/novadental/booking-platform/internal/observability/metrics"
	"github.com/novadental/booking-platform/pkg/logging"
)

func main() {
	// Load .env in development; ignore when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"clinic", cfg.ClinicName,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage: Postgres when configured, in-memory otherwise so the site
	// still runs in local development.
	var repo appointments.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to reach database", "error", err)
			os.Exit(1)
		}
		repo = appointments.NewPostgresRepository(pool)
		logger.Info("using postgres appointment store")
	} else {
		repo = appointments.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory appointment store")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bookingMetrics := metrics.NewBookingMetrics(registry)

	loc := cfg.Location()
	cache := availability.NewCache(repo, cfg.RefreshInterval, logger, bookingMetrics)
	go cache.Run(ctx)

	engine := availability.NewEngine(cache, loc, cfg.BookingHorizonDays, time.Now)
	notifier := notify.NewLogNotifier(logger)
	bookingSvc := booking.NewService(repo, engine, cache, notifier, logger, bookingMetrics)
	authSvc := auth.NewService(cfg.StaffUsername, cfg.StaffPassword, cfg.StaffJWTSecret,
		cfg.StaffSessionTTL, cfg.StaffRememberTTL)

	r := router.New(&router.Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(engine, cache, logger, bookingMetrics),
		BookingHandler:      booking.NewHandler(bookingSvc, logger),
		AppointmentsHandler: appointments.NewHandler(repo, loc, logger),
		AuthHandler:         auth.NewHandler(authSvc, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		StaffJWTSecret:      cfg.StaffJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
		ClinicName:          cfg.ClinicName,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
