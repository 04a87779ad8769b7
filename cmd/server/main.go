// Package main provides the API server entry point for the portfolio report service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfolio-report/internal/api"
	"github.com/portfolio-report/internal/config"
	"github.com/portfolio-report/internal/logging"
	"github.com/portfolio-report/internal/report"
	"github.com/portfolio-report/internal/service"
	"github.com/portfolio-report/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.InitGlobalLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("structured logging initialized")

	ctx := logging.WithLogger(context.Background(), logger)

	opts := service.ReportServiceOptions{
		Location: cfg.Report.Location(),
	}

	if cfg.Report.LogoPath != "" {
		logo, err := os.ReadFile(cfg.Report.LogoPath)
		if err != nil {
			logger.WithError(err).WithField("path", cfg.Report.LogoPath).Warn("default logo unreadable, reports will have none")
		} else {
			opts.DefaultLogo = logo
		}
	}

	// Every store is optional: a store that cannot be reached is disabled, not fatal
	if cfg.Cache.Enabled {
		redis, err := storage.NewRedisCache(ctx, &cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, document cache disabled")
		} else {
			defer func() { _ = redis.Close() }()
			opts.Cache = storage.NewDocumentCache(redis, cfg.Cache.TTL)
		}
	}

	if cfg.Archive.Enabled {
		postgres, err := storage.NewPostgresDB(ctx, &cfg.Database.Postgres)
		if err != nil {
			logger.WithError(err).Warn("Postgres unavailable, report archive disabled")
		} else {
			defer postgres.Close()
			opts.Reports = storage.NewReportRepository(postgres)
		}
	}

	if cfg.Archive.RenderEventsEnabled {
		clickhouse, err := storage.NewClickHouseDB(ctx, &cfg.Database.ClickHouse)
		if err != nil {
			logger.WithError(err).Warn("ClickHouse unavailable, render events disabled")
		} else {
			defer func() { _ = clickhouse.Close() }()
			opts.Events = storage.NewRenderEventRepository(clickhouse)
		}
	}

	reportService := service.NewReportService(report.NewEngine(logger), opts, logger)

	serverConfig := &api.ServerConfig{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		MaxBodyBytes:      cfg.Report.MaxBodyBytes,
	}
	server := api.NewServer(serverConfig, reportService, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host":     cfg.Server.Host,
		"port":     cfg.Server.Port,
		"cache":    opts.Cache != nil,
		"archive":  opts.Reports != nil,
		"events":   opts.Events != nil,
		"timezone": cfg.Report.Timezone,
	}).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	// Let in-flight archive and event writes finish before the stores close
	reportService.Wait()
	logger.Info("server exited")
}
