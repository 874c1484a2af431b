package main

// @title Property Service API
// @version 1.0.0
// @description Каталог объектов аренды (квартиры, PG, хостелы) с модерацией и кешем локации.
// @description
// @description Основные возможности:
// @description - Поиск опубликованных объектов с фильтрами и сортировкой
// @description - Создание объектов и модерация
// @description - Координаты и ближайшие места (транспорт, медицина, школы, кафе) с кешем на 24 часа

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/property-service/docs"
	"github.com/property-service/internal/config"
	httpDelivery "github.com/property-service/internal/delivery/http"
	"github.com/property-service/internal/delivery/http/handler"
	"github.com/property-service/internal/infrastructure/nominatim"
	"github.com/property-service/internal/infrastructure/overpass"
	"github.com/property-service/internal/pkg/logger"
	"github.com/property-service/internal/repository/cache"
	"github.com/property-service/internal/repository/postgres"
	redisRepo "github.com/property-service/internal/repository/redis"
	"github.com/property-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Property Service",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL and apply migrations
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(ctx); err != nil {
		cancel()
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
	cancel()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// 5. Repositories and external clients
	propertyRepo := postgres.NewPropertyRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	geocoder := nominatim.NewNominatimClient(&cfg.Geocoder, log)
	places := overpass.NewOverpassClient(&cfg.Places, log)

	// 6. Use cases
	propertyUC := usecase.NewPropertyUseCase(propertyRepo, cacheRepo, streamRepo, cfg.Cache.SearchCacheTTL, log)
	locationUC := usecase.NewLocationUseCase(propertyRepo, geocoder, places, &cfg.Location, log)

	// 7. HTTP handlers and server
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"postgres": db,
		"redis":    redisClient,
	}, log)
	propertyHandler := handler.NewPropertyHandler(propertyUC, log)
	locationHandler := handler.NewLocationHandler(locationUC, log)

	server := httpDelivery.NewServer(cfg, log, healthHandler, propertyHandler, locationHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
