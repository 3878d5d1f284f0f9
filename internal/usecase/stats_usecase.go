package usecase

import (
	"context"
	"fmt"

	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// StatsUseCase отдаёт накопленную статистику подбора масштаба
type StatsUseCase struct {
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
}

// NewStatsUseCase создает новый экземпляр StatsUseCase
func NewStatsUseCase(
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) *StatsUseCase {
	return &StatsUseCase{
		cacheRepo: cacheRepo,
		logger:    logger,
	}
}

// GetSelectionStats возвращает число подборов по каждой причине остановки
func (uc *StatsUseCase) GetSelectionStats(ctx context.Context) (*dto.SelectionStatsResponse, error) {
	reasons, err := uc.cacheRepo.GetSelectionStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get selection stats: %w", err)
	}

	var total int64
	for _, n := range reasons {
		total += n
	}

	uc.logger.Debug("Selection stats fetched", zap.Int64("total", total))

	return &dto.SelectionStatsResponse{
		Reasons: reasons,
		Total:   total,
	}, nil
}
