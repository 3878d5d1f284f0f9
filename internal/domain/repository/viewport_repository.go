package repository

import (
	"context"

	"github.com/poi-zoom-service/internal/domain"
)

// ViewportRepository определяет доступ к видимой области карты хоста
type ViewportRepository interface {
	// ZoomRange возвращает допустимый диапазон масштабов хоста
	ZoomRange(ctx context.Context) (domain.ZoomRange, error)

	// VisibleBounds центрирует карту на center с масштабом zoom
	// и возвращает получившуюся видимую область
	VisibleBounds(ctx context.Context, center domain.Coordinate, zoom domain.ZoomLevel) (domain.Bounds, error)
}
