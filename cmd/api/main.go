package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/api"
	"github.com/nexconsult/justice-tools/internal/config"
	"github.com/nexconsult/justice-tools/internal/logger"
	"github.com/nexconsult/justice-tools/internal/metrics"
	"github.com/nexconsult/justice-tools/internal/services"

	// Import docs for Swagger
	_ "github.com/nexconsult/justice-tools/docs"
)

// @title Justice Tools API
// @version 1.0
// @description Legal process and document consultations over the Web Justice API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.nexconsult.com/support
// @contact.email support@nexconsult.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, logCloser, err := logger.New(cfg.Log, logger.Options{})
	if err != nil {
		logger.WithError(err).Warn("Logging to console only")
	}
	defer logCloser.Close()

	report := cfg.Validate()
	for _, warning := range report.Warnings {
		logger.Warn(warning)
	}
	if !report.Valid {
		logger.WithField("errors", report.Errors).Fatal("Invalid configuration")
	}

	logger.Info("Starting Justice Tools API Server...")

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize services
	serviceContainer, err := services.NewContainer(cfg, logger, metrics.New(registry))
	if err != nil {
		logger.Fatalf("Failed to initialize services: %v", err)
	}
	defer func() {
		if err := serviceContainer.Close(); err != nil {
			logger.WithError(err).Error("Failed to close services")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize API server
	server := api.NewServer(ctx, cfg, logger, serviceContainer, registry)

	// Setup HTTP server
	timeouts := cfg.Timeouts()
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router,
		ReadTimeout:  timeouts.ServerReadTimeout,
		WriteTimeout: timeouts.ServerWriteTimeout,
		IdleTimeout:  timeouts.ServerIdleTimeout,
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":          cfg.Server.Port,
			"environment":   cfg.Server.Environment,
			"web_justice":   cfg.WebJustice.BaseURL,
			"write_timeout": timeouts.ServerWriteTimeout.String(),
		}).Info("Server starting...")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		logger.WithError(err).Error("Failed to start server")
		os.Exit(1)
	}

	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
