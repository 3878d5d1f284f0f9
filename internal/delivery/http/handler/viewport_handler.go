package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-zoom-service/internal/pkg/errors"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"github.com/poi-zoom-service/internal/pkg/validator"
	"github.com/poi-zoom-service/internal/usecase"
	"github.com/poi-zoom-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// ViewportHandler - обработчик запросов по видимой области карты
type ViewportHandler struct {
	viewportUC *usecase.ViewportUseCase
	poiUC      *usecase.POIUseCase
	logger     *zap.Logger
}

// NewViewportHandler создаёт новый ViewportHandler
func NewViewportHandler(viewportUC *usecase.ViewportUseCase, poiUC *usecase.POIUseCase, logger *zap.Logger) *ViewportHandler {
	return &ViewportHandler{
		viewportUC: viewportUC,
		poiUC:      poiUC,
		logger:     logger,
	}
}

// GetBounds godoc
// @Summary Видимая область карты
// @Description Центрирует карту на точке с заданным масштабом и возвращает видимую область
// @Tags Viewport
// @Produce json
// @Param lat query number true "Широта центра"
// @Param lon query number true "Долгота центра"
// @Param zoom query number true "Масштаб"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewportBoundsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/viewport/bounds [get]
func (h *ViewportHandler) GetBounds(c *fiber.Ctx) error {
	var (
		req dto.ViewportBoundsRequest
		err error
	)
	if req.Lat, err = queryFloat(c, "lat"); err != nil {
		return utils.SendError(c, err)
	}
	if req.Lon, err = queryFloat(c, "lon"); err != nil {
		return utils.SendError(c, err)
	}
	if req.Zoom, err = queryFloat(c, "zoom"); err != nil {
		return utils.SendError(c, err)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.viewportUC.GetVisibleBounds(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// GetPOIInViewport godoc
// @Summary POI в видимой области
// @Description Возвращает сохранённые POI внутри bbox. Если ne_lon < sw_lon, область пересекает антимеридиан.
// @Tags Viewport
// @Produce json
// @Param sw_lat query number true "Широта юго-западного угла"
// @Param sw_lon query number true "Долгота юго-западного угла"
// @Param ne_lat query number true "Широта северо-восточного угла"
// @Param ne_lon query number true "Долгота северо-восточного угла"
// @Param categories query string false "Категории через запятую"
// @Param limit query int false "Максимальное количество POI" default(100)
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewportPOIResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/viewport/poi [get]
func (h *ViewportHandler) GetPOIInViewport(c *fiber.Ctx) error {
	var (
		req dto.ViewportPOIRequest
		err error
	)
	if req.SwLat, err = queryFloat(c, "sw_lat"); err != nil {
		return utils.SendError(c, err)
	}
	if req.SwLon, err = queryFloat(c, "sw_lon"); err != nil {
		return utils.SendError(c, err)
	}
	if req.NeLat, err = queryFloat(c, "ne_lat"); err != nil {
		return utils.SendError(c, err)
	}
	if req.NeLon, err = queryFloat(c, "ne_lon"); err != nil {
		return utils.SendError(c, err)
	}
	req.Limit = c.QueryInt("limit", 0)

	if raw := c.Query("categories", ""); raw != "" {
		for _, category := range strings.Split(raw, ",") {
			if category = strings.TrimSpace(category); category != "" {
				req.Categories = append(req.Categories, category)
			}
		}
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.poiUC.GetPOIInViewport(c.Context(), req)
	if err != nil {
		h.logger.Error("Failed to get POIs in viewport", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
		Limit: result.Limit,
	})
}

// queryFloat читает обязательный числовой query-параметр
func queryFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			name: "required",
		})
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			name: "must be a number",
		})
	}
	return v, nil
}
