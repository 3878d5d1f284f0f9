package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-zoom-service/internal/pkg/errors"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"github.com/poi-zoom-service/internal/pkg/validator"
	"github.com/poi-zoom-service/internal/usecase"
	"github.com/poi-zoom-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// ZoomHandler - обработчик запросов подбора масштаба карты
type ZoomHandler struct {
	zoomUC *usecase.ZoomUseCase
	logger *zap.Logger
}

// NewZoomHandler - создание нового ZoomHandler
func NewZoomHandler(zoomUC *usecase.ZoomUseCase, logger *zap.Logger) *ZoomHandler {
	return &ZoomHandler{
		zoomUC: zoomUC,
		logger: logger,
	}
}

// SelectZoom godoc
// @Summary Подбор масштаба карты
// @Description Уменьшает масштаб от максимального, пока в видимой области не окажется больше target_count POI.
// @Description Если видимая область вышла за radius_km, останавливается на первом масштабе с любым POI.
// @Description Без списка pois точки берутся из базы (с фильтром categories).
// @Tags Zoom
// @Accept json
// @Produce json
// @Param request body dto.ZoomSelectRequest true "Опорная точка, радиус, цель и POI"
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoomSelectResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/zoom/select [post]
func (h *ZoomHandler) SelectZoom(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.ZoomSelectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid request body",
		}))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.zoomUC.SelectZoom(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.MatchedCount,
		Cached:   result.Cached,
		TimeMSec: utils.Since(start),
	})
}

// Demo godoc
// @Summary Демо подбора масштаба
// @Description Подбор для Марсова поля в Париже: радиус 7 км, больше одной достопримечательности
// @Tags Zoom
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoomSelectResponse}
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/zoom/demo [get]
func (h *ZoomHandler) Demo(c *fiber.Ctx) error {
	start := time.Now()

	result, err := h.zoomUC.Demo(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.MatchedCount,
		Cached:   result.Cached,
		TimeMSec: utils.Since(start),
	})
}

// GetZoomRange godoc
// @Summary Диапазон масштабов хоста
// @Tags Zoom
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoomRangeResponse}
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/zoom/range [get]
func (h *ZoomHandler) GetZoomRange(c *fiber.Ctx) error {
	result, err := h.zoomUC.GetZoomRange(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
