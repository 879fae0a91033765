package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jskelly/legisync/internal/config"
	"github.com/jskelly/legisync/internal/congress"
	"github.com/jskelly/legisync/internal/domain"
	"github.com/jskelly/legisync/internal/logger"
	"github.com/jskelly/legisync/internal/repository"
	"github.com/jskelly/legisync/internal/service"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "legisync-import",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	startCongress := flag.Int("start", 0, "First congress to import (descending; 0 uses the configured default)")
	endCongress := flag.Int("end", 0, "Last congress to import (0 uses the configured default)")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	if *startCongress == 0 {
		*startCongress = cfg.Import.StartCongress
	}
	if *endCongress == 0 {
		*endCongress = cfg.Import.EndCongress
	}
	if *startCongress < *endCongress {
		appLogger.WithFields(logger.Fields{
			"start": *startCongress,
			"end":   *endCongress,
		}).Fatal("start must be greater than or equal to end")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	legislatorRepo := repository.NewLegislatorRepository(db)
	lockRepo := repository.NewLockRepository(db)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	result := importService.Run(ctx, *startCongress, *endCongress)

	appLogger.WithFields(logger.Fields{
		"status":   result.Status,
		"imported": result.Imported,
		"updated":  result.Updated,
		"failed":   len(result.Errors),
	}).Info("Import finished")

	for _, e := range result.Errors {
		appLogger.WithField("record_error", e).Warn("Record failed during import")
	}

	if result.Status == domain.ImportStatusError {
		os.Exit(1)
	}
}
