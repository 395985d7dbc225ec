// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/supportcentre/supportcentre-go/internal/application/container"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/logging"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/observability/performance"
	"github.com/supportcentre/supportcentre-go/internal/infrastructure/persistence/kv"
	"github.com/supportcentre/supportcentre-go/internal/presentation/http/server"
	"github.com/supportcentre/supportcentre-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Open the key-value store
	log.Println("Opening feedback store...")
	store, err := kv.Open(kv.Options{
		Path:     config.StorePath,
		InMemory: config.StoreInMemory,
	})
	if err != nil {
		return fmt.Errorf("failed to open feedback store: %w", err)
	}

	// Step 2: Initialize channeled logging
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.OutputToFile = config.LogToFile
	loggerConfig.OutputToConsole = config.LogToConsole
	loggerConfig.LogDirectory = config.LogDirectory
	loggerConfig.JSONFormat = config.LogJSONFormat
	loggerConfig.IncludeSource = config.LogIncludeSource
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Logging initialized")

	// Step 3: Create dependency injection container
	perfTracker := performance.NewTracker(1000)
	appContainer, err := container.NewContainer(store, logger, perfTracker)
	if err != nil {
		store.Close()
		return fmt.Errorf("failed to build container: %w", err)
	}
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 4: Warm the feedback cache
	startWarmTime := time.Now()
	warmed, err := appContainer.FeedbackService.WarmCache()
	if err != nil {
		logger.Startup().Error("Cache warming failed", "error", err.Error(), "duration", time.Since(startWarmTime))
	} else {
		logger.Startup().Info("Cache warming completed", "resources", warmed, "duration", time.Since(startWarmTime))
	}

	// Step 5: Start the dashboard broadcaster
	go appContainer.Broadcaster.Run(ctx)
	logger.Startup().Info("Dashboard broadcaster started", "interval", config.BroadcastInterval)

	// Step 6: Start HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped")
	}

	logger.Shutdown().Info("Closing feedback store...")
	if err := store.Close(); err != nil {
		logger.Shutdown().Error("Error closing feedback store", "error", err.Error())
	} else {
		logger.Shutdown().Info("Feedback store closed")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return logger.Close()
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
