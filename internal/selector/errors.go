package selector

import (
	"errors"
	"fmt"

	"github.com/poi-zoom-service/internal/domain"
)

var (
	// ErrInvalidRange - диапазон некорректен: min > max, бесконечные границы
	// или границы, которые нельзя пройти шагом в единицу
	ErrInvalidRange = errors.New("invalid zoom range")

	// ErrInvalidRequest - отрицательный радиус или целевое число, неверные
	// координаты либо повторяющиеся ID POI
	ErrInvalidRequest = errors.New("invalid search request")
)

// ProviderError оборачивает сбой провайдера области: ошибку провайдера
// либо вырожденную область
type ProviderError struct {
	Zoom domain.ZoomLevel
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("bounds provider failed at zoom %g: %v", float64(e.Zoom), e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func invalidRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
