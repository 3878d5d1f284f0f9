package utils

import (
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-zoom-service/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// Meta - сводка к ответу. Cached ставится, когда подбор отдан из Redis
type Meta struct {
	Total    int     `json:"total"`
	Limit    int     `json:"limit,omitempty"`
	Cached   bool    `json:"cached,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

// Since возвращает миллисекунды от start для Meta.TimeMSec
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Неизвестная ошибка наружу не отдаётся
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
