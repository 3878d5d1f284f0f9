package usecase

import (
	"context"

	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/pkg/errors"
	"github.com/poi-zoom-service/internal/usecase/dto"
	"go.uber.org/zap"
)

const defaultViewportPOILimit = 100

type POIUseCase struct {
	poiRepo repository.POIRepository
	logger  *zap.Logger
}

func NewPOIUseCase(
	poiRepo repository.POIRepository,
	logger *zap.Logger,
) *POIUseCase {
	return &POIUseCase{
		poiRepo: poiRepo,
		logger:  logger,
	}
}

// GetPOIInViewport возвращает сохранённые POI внутри видимой области
func (uc *POIUseCase) GetPOIInViewport(
	ctx context.Context,
	req dto.ViewportPOIRequest,
) (*dto.ViewportPOIResponse, error) {
	bounds := domain.Bounds{
		NorthEast: domain.Coordinate{Lat: req.NeLat, Lon: req.NeLon},
		SouthWest: domain.Coordinate{Lat: req.SwLat, Lon: req.SwLon},
	}
	if err := bounds.Validate(); err != nil {
		return nil, errors.ErrInvalidBounds.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	// Лимит по умолчанию
	if req.Limit == 0 {
		req.Limit = defaultViewportPOILimit
	}

	pois, err := uc.poiRepo.GetPOIInBBox(ctx, bounds, req.Categories, req.Limit)
	if err != nil {
		uc.logger.Error("Failed to get POIs in viewport", zap.Error(err))
		return nil, err
	}

	// Расстояние считается от центра области
	center := bounds.Center()
	result := make([]dto.POISimple, 0, len(pois))
	for _, p := range pois {
		result = append(result, toPOISimple(p, center))
	}

	return &dto.ViewportPOIResponse{
		POIs:  result,
		Total: len(result),
		Limit: req.Limit,
	}, nil
}

func (uc *POIUseCase) GetCategories(ctx context.Context) (*dto.CategoriesResponse, error) {
	categories, err := uc.poiRepo.GetCategories(ctx)
	if err != nil {
		uc.logger.Error("Failed to get categories", zap.Error(err))
		return nil, err
	}

	return &dto.CategoriesResponse{
		Categories: categories,
	}, nil
}
