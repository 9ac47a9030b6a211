package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/flowdesk-api/app/db"
	appLogger "github.com/FACorreiaa/flowdesk-api/app/logger"
	"github.com/FACorreiaa/flowdesk-api/app/observability/metrics"
	"github.com/FACorreiaa/flowdesk-api/app/tracer"
	"github.com/FACorreiaa/flowdesk-api/config"
	_ "github.com/FACorreiaa/flowdesk-api/docs"
	"github.com/FACorreiaa/flowdesk-api/internal/container"
)

const (
	serviceName     = "flowdesk-api"
	serviceVersion  = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

// @title						FlowDesk API
// @version					0.1.0
// @description				Accounts and access control for the FlowDesk process/task backend.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.IsProduction(), os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down complete.")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	telemetry, err := tracer.InitTracingAndMetrics(serviceName, serviceVersion)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()
	if err := metrics.InitAppMetrics(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	c := container.NewContainer(&cfg, pool, logger, metrics.Get())

	// refuse to serve with a secret or ttl that would make every token unverifiable or unsafe
	if err := c.Tokens.Check(); err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	if !c.WaitForDB(ctx) {
		return errors.New("database not ready after waiting")
	}
	if err := c.Bootstrap(ctx); err != nil {
		return err
	}

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Handlers.ExternalAPI.Port),
		Handler:      c.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", telemetry.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Handlers.Prometheus.Port),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, srv := range map[string]*http.Server{"api": apiServer, "metrics": metricsServer} {
		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("server", name), slog.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	return g.Wait()
}
