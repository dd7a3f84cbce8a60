package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"burningbros/internal/config"
	"burningbros/internal/logging"
)

// @title Burningbros Product Catalog API
// @version 1.0
// @description Bilingual (English/Vietnamese) product catalog with likes.
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)

	ctx := context.Background()
	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize server")
	}

	if cfg.SeedProducts {
		seedProducts(ctx, srv.productService, logger)
	}

	// --- Start HTTP Server ---
	logger.WithField("port", cfg.AppPort).Info("Starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.app.Listen(cfg.AppPort); err != nil {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	logger.Info("Shutting down server...")

	if err := srv.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.WithError(err).Error("Error during Fiber shutdown")
	}
	if err := srv.Close(); err != nil {
		logger.WithError(err).Error("Error releasing resources")
	}

	logger.Info("Server gracefully stopped")
}
