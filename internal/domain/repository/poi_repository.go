package repository

import (
	"context"

	"github.com/poi-zoom-service/internal/domain"
)

// POIRepository определяет методы для работы с точками интереса
type POIRepository interface {
	// GetByID возвращает POI по внешнему идентификатору
	GetByID(ctx context.Context, id string) (*domain.POI, error)

	// GetPOIInBBox возвращает POI внутри области (с учётом антимеридиана)
	GetPOIInBBox(ctx context.Context, bounds domain.Bounds, categories []string, limit int) ([]*domain.POI, error)

	// GetNearestPOI возвращает до limit POI внутри области, ближайших к reference
	GetNearestPOI(ctx context.Context, bounds domain.Bounds, reference domain.Coordinate, categories []string, limit int) ([]*domain.POI, error)

	// GetCategories возвращает все категории POI
	GetCategories(ctx context.Context) ([]*domain.POICategory, error)
}
