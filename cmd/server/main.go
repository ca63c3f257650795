package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/app"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/booking"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/config"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/db"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/logger"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/notification"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/ratelimit"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run never exits the process, so its deferred closes always run.
func run() error {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return errors.Wrap(err, "connect to db")
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return errors.Wrap(err, "migrate db")
		}
	}

	appCfg := app.Config{
		IsProduction: cfg.IsProduction(),
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		JWTSecret:    cfg.JWTSecret,
		Logger:       log,
		BookingOptions: booking.Options{
			AllowAnonymousCancel: cfg.AllowAnonymousCancel,
			AllowAnonymousDelete: cfg.AllowAnonymousDelete,
		},
		RateLimit:  cfg.BookingRateLimit,
		RateWindow: cfg.BookingRateWindow,
	}

	// Optional Redis for shared rate-limit counters
	if cfg.RedisAddr != "" {
		rdb := ratelimit.NewRedisClient(cfg.RedisAddr)
		defer rdb.Close()
		appCfg.RedisClient = rdb
		log.Info("rate limiting backed by redis", slog.String("addr", cfg.RedisAddr))
	}

	// Optional RabbitMQ for confirmation events
	if cfg.AMQPURL != "" {
		publisher, err := notification.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return errors.Wrap(err, "connect to rabbitmq")
		}
		defer publisher.Close()
		appCfg.Publisher = publisher
		log.Info("publishing booking events", slog.String("exchange", cfg.AMQPExchange))
	}

	container := app.NewContainer(appCfg)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server running", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for Ctrl+C or a listener failure
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serveErr:
		return errors.Wrap(err, "serve http")
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", slog.String("error", err.Error()))
	}

	log.Info("server exited gracefully")
	return nil
}
