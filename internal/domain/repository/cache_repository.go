package repository

import (
	"context"
	"time"

	"github.com/poi-zoom-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// IncrSelectionStat увеличивает счётчик причины остановки подбора зума
	IncrSelectionStat(ctx context.Context, reason domain.TerminationReason) error

	// GetSelectionStats возвращает счётчики по причинам остановки
	GetSelectionStats(ctx context.Context) (map[domain.TerminationReason]int64, error)
}
