package usecase

import (
	"context"

	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/pkg/errors"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"github.com/poi-zoom-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// ViewportUseCase отдаёт видимую область хоста для центра и масштаба
type ViewportUseCase struct {
	viewportRepo repository.ViewportRepository
	logger       *zap.Logger
}

func NewViewportUseCase(
	viewportRepo repository.ViewportRepository,
	logger *zap.Logger,
) *ViewportUseCase {
	return &ViewportUseCase{
		viewportRepo: viewportRepo,
		logger:       logger,
	}
}

func (uc *ViewportUseCase) GetVisibleBounds(
	ctx context.Context,
	req dto.ViewportBoundsRequest,
) (*dto.ViewportBoundsResponse, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	zr, err := uc.viewportRepo.ZoomRange(ctx)
	if err != nil {
		uc.logger.Error("Failed to get host zoom range", zap.Error(err))
		return nil, errors.ErrViewportProvider.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	zoom := domain.ZoomLevel(req.Zoom)
	if !zr.Contains(zoom) {
		return nil, errors.ErrInvalidZoom.WithDetails(map[string]interface{}{
			"zoom":     req.Zoom,
			"min_zoom": float64(zr.Min),
			"max_zoom": float64(zr.Max),
		})
	}

	center := domain.Coordinate{Lat: req.Lat, Lon: req.Lon}
	bounds, err := uc.viewportRepo.VisibleBounds(ctx, center, zoom)
	if err != nil {
		uc.logger.Error("Failed to get visible bounds",
			zap.Stringer("center", center),
			zap.Float64("zoom", req.Zoom),
			zap.Error(err))
		return nil, errors.ErrViewportProvider.WithDetails(map[string]interface{}{
			"zoom":   req.Zoom,
			"reason": err.Error(),
		})
	}

	return &dto.ViewportBoundsResponse{
		Zoom:                req.Zoom,
		Center:              center,
		Bounds:              bounds,
		CrossesAntimeridian: bounds.CrossesAntimeridian(),
	}, nil
}
