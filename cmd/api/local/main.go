//go:build !lambda
// +build !lambda

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/cyphera/cyphera-metrics/internal/config"
	"github.com/cyphera/cyphera-metrics/internal/logger"
	"github.com/cyphera/cyphera-metrics/internal/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine; variables may be set directly in the environment.
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger.InitLoggerWithConfig(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Stage:       cfg.Stage,
		Component:   logger.ComponentAPI,
		EnableColor: true,
	})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Unable to create server", zap.Error(err))
	}
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}
