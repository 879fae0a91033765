package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jskelly/legisync/internal/api"
	"github.com/jskelly/legisync/internal/api/handler"
	"github.com/jskelly/legisync/internal/config"
	"github.com/jskelly/legisync/internal/congress"
	"github.com/jskelly/legisync/internal/logger"
	"github.com/jskelly/legisync/internal/repository"
	"github.com/jskelly/legisync/internal/service"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "legisync-api",
	})
	logger.SetDefaultLogger(appLogger)

	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	legislatorRepo := repository.NewLegislatorRepository(db)
	lockRepo := repository.NewLockRepository(db)

	// Initialize upstream client and import service
	client := congress.NewClient(&cfg.Congress, appLogger)
	importService := service.NewImportService(
		client,
		legislatorRepo,
		lockRepo,
		appLogger,
		&service.ImportConfig{
			BatchSize:  cfg.Import.BatchSize,
			BatchDelay: cfg.Import.BatchDelay,
		},
	)

	importHandler := handler.NewImportHandler(
		importService,
		legislatorRepo,
		lockRepo,
		appLogger,
		cfg.Import.StartCongress,
		cfg.Import.EndCongress,
	)

	router := api.SetupRouter(importHandler, appLogger, cfg.Server.Mode)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Forced server shutdown")
	}

	appLogger.Info("Server stopped")
}
