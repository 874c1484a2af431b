package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/property-service/internal/config"
	"github.com/property-service/internal/infrastructure/nominatim"
	"github.com/property-service/internal/infrastructure/overpass"
	"github.com/property-service/internal/pkg/logger"
	"github.com/property-service/internal/repository/cache"
	"github.com/property-service/internal/repository/postgres"
	redisRepo "github.com/property-service/internal/repository/redis"
	"github.com/property-service/internal/usecase"
	"github.com/property-service/internal/worker"
	"github.com/property-service/internal/worker/location"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Location Refresh Worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Repositories, clients, use case
	propertyRepo := postgres.NewPropertyRepository(db)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	geocoder := nominatim.NewNominatimClient(&cfg.Geocoder, log)
	places := overpass.NewOverpassClient(&cfg.Places, log)

	locationUC := usecase.NewLocationUseCase(propertyRepo, geocoder, places, &cfg.Location, log)

	// 6. Workers
	refreshWorker := location.NewRefreshWorker(
		streamRepo,
		locationUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		log,
	)

	workerManager := worker.NewWorkerManager(worker.DefaultShutdownTimeout, log)
	workerManager.Register(refreshWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("Received shutdown signal")

	// Stop сначала даёт текущему батчу завершиться, cancel - только после
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}
	cancel()

	log.Info("Worker shutdown complete")
}
