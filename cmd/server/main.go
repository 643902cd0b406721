package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"harvestsync-service/internal/domain/repository"
	"harvestsync-service/internal/infrastructure/config"
	"harvestsync-service/internal/infrastructure/oauth"
	"harvestsync-service/internal/infrastructure/persistence"
	"harvestsync-service/internal/infrastructure/router"
	storeRepo "harvestsync-service/internal/interface/repository"
	"harvestsync-service/internal/usecase"
	"harvestsync-service/pkg/logger"
	"harvestsync-service/pkg/metrics"

	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Harvestsync Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the local store behind the configured driver
	var store repository.KeyValueStore
	var mongoClient *mongo.Client

	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoConnectTimeout)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		store = storeRepo.NewMongoStoreRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	case config.StoreDriverPostgres:
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		store, err = storeRepo.NewGormStoreRepository(gormDB)
		if err != nil {
			log.Fatal("Failed to migrate store schema", "error", err)
		}
	case config.StoreDriverMemory:
		log.Warn("Using in-memory store, data will not survive restarts")
		store = storeRepo.NewMemoryStoreRepository()
	default:
		log.Fatal("Unknown store driver", "driver", cfg.StoreDriver)
	}

	// Requests authenticate with the token kept in the local store
	tokenSource := oauth.NewStoreTokenSource(store, log)
	apiClient := storeRepo.NewHTTPAPIClient(ctx, tokenSource, log, cfg.RequestTimeout)
	connectivity := storeRepo.NewProbeConnectivityRepository(cfg.ProbeURL, cfg.ProbeTimeout, log)

	m := metrics.NewMetrics("harvestsync")

	orchestrator := usecase.NewOrchestrator(
		store,
		apiClient,
		connectivity,
		cfg.Endpoints(),
		log,
		m,
		func() {
			log.Warn("Session expired, credentials evicted")
		},
	)
	runner := usecase.NewSyncRunner(orchestrator, store, log)

	syncRouter := router.NewSyncRouter(runner, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      syncRouter.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Harvestsync Service stopped")
}
