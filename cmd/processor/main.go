package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"eventflow/internal/api"
	"eventflow/internal/config"
	"eventflow/internal/consumer"
	"eventflow/internal/database"
	"eventflow/internal/dlq"
	"eventflow/internal/logger"
	"eventflow/internal/pipeline"
)

func main() {
	logger.Log.Info("Starting eventflow processor...")

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.Log.Level)

	logger.WithFields(logrus.Fields{
		"batchSize":   cfg.Pipeline.BatchSize,
		"idleTimeout": cfg.Pipeline.IdleTimeout.String(),
		"atomic":      cfg.Pipeline.Rules.Atomic,
		"rulesFile":   cfg.Pipeline.RulesFile,
	}).Info("Pipeline configured")

	db, err := database.New(&cfg.MSSQL)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	dlqClient, err := dlq.New(&cfg.Redis)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer dlqClient.Close()

	p := pipeline.New(db, dlqClient, cfg.Pipeline.Rules)

	kafkaConsumer, err := consumer.New(&cfg.Kafka, cfg.Pipeline, p)
	if err != nil {
		logger.Log.Fatalf("Failed to create consumer: %v", err)
	}
	defer kafkaConsumer.Stop()

	apiServer := api.New(&cfg.API, dlqClient, db, cfg.Pipeline.Rules)

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Metrics.Port,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go kafkaConsumer.Start()

	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("API server error: %v", err)
		}
	}()

	go func() {
		logger.Log.Infof("Serving metrics on port %s", cfg.Metrics.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("Metrics server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Log.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Stop(ctx); err != nil {
		logger.Log.Errorf("Error stopping API server: %v", err)
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Error stopping metrics server: %v", err)
	}

	logger.Log.Info("Shutdown complete")
}
