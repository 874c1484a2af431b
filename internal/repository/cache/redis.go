package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/property-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis - общее подключение для кеша выдачи и Redis Streams
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis открывает подключение и проверяет его PING; при ошибке клиент закрывается
func NewRedis(cfg *config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", opts.Addr, err)
	}

	logger.Info("Redis connected",
		zap.String("addr", opts.Addr),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", opts.PoolSize),
	)

	return &Redis{
		client: client,
		logger: logger,
	}, nil
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection")
	return r.client.Close()
}

// Health - PING для /health
func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Client() *redis.Client {
	return r.client
}
