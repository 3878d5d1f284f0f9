package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"github.com/poi-zoom-service/internal/usecase"
	"go.uber.org/zap"
)

// POIHandler - обработчик для POI (точки интереса) запросов
type POIHandler struct {
	poiUC  *usecase.POIUseCase
	logger *zap.Logger
}

// NewPOIHandler - создание нового POIHandler
func NewPOIHandler(poiUC *usecase.POIUseCase, logger *zap.Logger) *POIHandler {
	return &POIHandler{
		poiUC:  poiUC,
		logger: logger,
	}
}

// GetCategories godoc
// @Summary Категории POI
// @Description Возвращает категории сохранённых POI с количеством точек в каждой
// @Tags POI
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoriesResponse}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/poi/categories [get]
func (h *POIHandler) GetCategories(c *fiber.Ctx) error {
	result, err := h.poiUC.GetCategories(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Categories),
	})
}
