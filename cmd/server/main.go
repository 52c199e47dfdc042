// Package main provides the entry point for the keiba optimizer API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-optimizer/internal/config"
	"github.com/yourusername/keiba-optimizer/internal/datasource"
	"github.com/yourusername/keiba-optimizer/internal/health"
	"github.com/yourusername/keiba-optimizer/internal/logger"
	"github.com/yourusername/keiba-optimizer/internal/metrics"
	"github.com/yourusername/keiba-optimizer/internal/optimizer"
	"github.com/yourusername/keiba-optimizer/internal/racecache"
	"github.com/yourusername/keiba-optimizer/internal/scheduler"
	"github.com/yourusername/keiba-optimizer/internal/server"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := os.Getenv("KEIBA_OPTIMIZER_CONFIG")

	// Load configuration
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     version,
	}).Info("Keiba Optimizer API starting")

	// Initialize metrics registry
	metrics.InitRegistry()

	// Build the data source chain: live or mock client behind the TTL cache
	source := datasource.New(&cfg.DataSource, appLog)
	cachedSource := racecache.New(source, &cfg.Cache, appLog)
	appLog.WithField("data_source", source.Name()).Info("Race data source initialized")

	// Initialize optimizer client
	optClient := optimizer.NewClient(&cfg.Optimizer, appLog)
	appLog.WithField("optimizer_url", cfg.Optimizer.BaseURL).Info("Optimizer client initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     version,
		Commit:      commit,
		Logger:      appLog,
		Dependencies: map[string]health.DependencyPinger{
			"data_source": cachedSource,
			"optimizer":   optClient,
		},
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Start metrics server
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Start background race list refresh
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(cachedSource, &cfg.DataSource, appLog)
		if err := sched.ScheduleRaceRefresh(cfg.Scheduler.RefreshIntervalSeconds); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule race refresh")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
	}

	// Start API server
	apiServer := server.New(cfg, cachedSource, optClient, appLog)
	go func() {
		if err := apiServer.Start(); err != nil {
			appLog.WithError(err).Fatal("API server failed")
		}
	}()

	healthServer.SetReady(true)
	appLog.WithField("port", cfg.Server.Port).Info("Keiba Optimizer API is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error stopping scheduler")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}

	appLog.Info("Keiba Optimizer API shut down successfully")
}
