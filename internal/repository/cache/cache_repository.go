package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SelectionStatsKey - hash со счётчиками причин остановки подбора зума
const SelectionStatsKey = "stats:zoom:reasons"

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

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
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

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// IncrSelectionStat увеличивает счётчик причины остановки на единицу
func (r *cacheRepository) IncrSelectionStat(ctx context.Context, reason domain.TerminationReason) error {
	if err := r.client.HIncrBy(ctx, SelectionStatsKey, string(reason), 1).Err(); err != nil {
		r.logger.Error("Failed to increment selection stat",
			zap.String("reason", string(reason)),
			zap.Error(err))
		return fmt.Errorf("stats incr error: %w", err)
	}
	return nil
}

// GetSelectionStats возвращает счётчики для всех известных причин, отсутствующие равны нулю
func (r *cacheRepository) GetSelectionStats(ctx context.Context) (map[domain.TerminationReason]int64, error) {
	raw, err := r.client.HGetAll(ctx, SelectionStatsKey).Result()
	if err != nil {
		r.logger.Error("Failed to get selection stats", zap.Error(err))
		return nil, fmt.Errorf("stats get error: %w", err)
	}

	stats := make(map[domain.TerminationReason]int64, len(domain.TerminationReasons))
	for _, reason := range domain.TerminationReasons {
		stats[reason] = 0
	}
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			r.logger.Warn("Skipping malformed stat counter",
				zap.String("field", field),
				zap.String("value", value))
			continue
		}
		stats[domain.TerminationReason(field)] = n
	}

	return stats, nil
}
