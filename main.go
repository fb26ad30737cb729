package main

import (
	"context"
	"errors"
	"log/slog"
	"moves/config"
	httpserver "moves/http"
	"moves/logger"
	"moves/store"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(log)
	log.Info("configuration loaded", "port", cfg.ServerPort, "driver", cfg.DB.Driver)

	db, err := store.Open(cfg.DB)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database initialized")

	server := httpserver.NewServer(db, cfg, log)
	srv := server.GetHTTPServer(cfg.ServerPort)

	var metricsSrv *stdhttp.Server
	if cfg.MetricsAddr != "" {
		metricsSrv = server.GetMetricsServer(cfg.MetricsAddr)
		go func() {
			log.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				log.Error("metrics server error", "error", err)
			}
		}()
	}

	go func() {
		log.Info("server listening", "addr", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("server forced to shutdown", "error", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			log.Warn("metrics server forced to shutdown", "error", err)
		}
	}

	log.Info("server stopped")
}
