package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"github.com/poi-zoom-service/internal/usecase"
	"go.uber.org/zap"
)

// StatsHandler обрабатывает запросы для статистики
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// GetSelectionStats godoc
// @Summary Get zoom selection statistics
// @Description Возвращает число выполненных подборов масштаба по причинам остановки
// @Tags Statistics
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.SelectionStatsResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetSelectionStats(c *fiber.Ctx) error {
	ctx := c.Context()

	h.logger.Debug("Handling get selection stats request")

	stats, err := h.statsUC.GetSelectionStats(ctx)
	if err != nil {
		h.logger.Error("Failed to get selection stats", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stats, nil)
}
