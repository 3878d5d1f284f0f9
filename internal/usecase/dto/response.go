package dto

import "github.com/poi-zoom-service/internal/domain"

// ZoomSelectResponse - результат подбора масштаба
type ZoomSelectResponse struct {
	RequestID    string                   `json:"request_id"`
	Zoom         float64                  `json:"zoom"`
	Bounds       domain.Bounds            `json:"bounds"`
	Matched      []POISimple              `json:"matched"`
	MatchedCount int                      `json:"matched_count"`
	Reason       domain.TerminationReason `json:"reason"`
	Queries      int                      `json:"queries"`
	ZoomRange    ZoomRangeResponse        `json:"zoom_range"`
	Cached       bool                     `json:"cached"`
}

// POISimple - упрощенная информация о POI
type POISimple struct {
	ID       string  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Category string  `json:"category,omitempty"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Distance float64 `json:"distance"` // meters
}

// ZoomRangeResponse - допустимый диапазон масштабов
type ZoomRangeResponse struct {
	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`
}

// ViewportBoundsResponse - видимая область карты
type ViewportBoundsResponse struct {
	Zoom                float64           `json:"zoom"`
	Center              domain.Coordinate `json:"center"`
	Bounds              domain.Bounds     `json:"bounds"`
	CrossesAntimeridian bool              `json:"crosses_antimeridian"`
}

// ViewportPOIResponse - POI внутри видимой области
type ViewportPOIResponse struct {
	POIs  []POISimple `json:"pois"`
	Total int         `json:"total"`
	Limit int         `json:"limit"`
}

// CategoriesResponse - категории POI
type CategoriesResponse struct {
	Categories []*domain.POICategory `json:"categories"`
}

// SelectionStatsResponse - счётчики причин остановки подбора
type SelectionStatsResponse struct {
	Reasons map[domain.TerminationReason]int64 `json:"reasons"`
	Total   int64                              `json:"total"`
}
