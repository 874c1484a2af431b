package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/property-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// scanBatch - размер страницы SCAN при удалении по префиксу
const scanBatch = 200

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

// NewCacheRepositoryWithClient - для тестов и переиспользования готового клиента
func NewCacheRepositoryWithClient(client *redis.Client, logger *zap.Logger) repository.CacheRepository {
	return &cacheRepository{
		client: client,
		logger: logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// DeleteByPrefix удаляет ключи через SCAN, KEYS не используется чтобы не блокировать Redis
func (r *cacheRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	var (
		cursor  uint64
		deleted int
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			r.logger.Error("Failed to scan cache keys", zap.String("prefix", prefix), zap.Error(err))
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				r.logger.Error("Failed to delete cache keys", zap.String("prefix", prefix), zap.Error(err))
				return fmt.Errorf("cache delete error: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Debug("Cache keys deleted by prefix", zap.String("prefix", prefix), zap.Int("count", deleted))
	return nil
}
