package selector

import "github.com/poi-zoom-service/internal/domain"

// BoundsProvider возвращает видимую область хоста с центром в опорной точке
// при заданном масштабе. Вызовы строго последовательны.
type BoundsProvider interface {
	Bounds(zoom domain.ZoomLevel) (domain.Bounds, error)
}

// BoundsProviderFunc адаптирует функцию к BoundsProvider
type BoundsProviderFunc func(zoom domain.ZoomLevel) (domain.Bounds, error)

func (f BoundsProviderFunc) Bounds(zoom domain.ZoomLevel) (domain.Bounds, error) {
	return f(zoom)
}
