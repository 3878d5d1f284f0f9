package domain

import "math"

// ZoomLevel - масштаб карты: больше значение - крупнее масштаб и меньше видимая область
type ZoomLevel float64

// ZoomRange - допустимый диапазон масштабов хоста.
// Min - самый мелкий масштаб (максимальная площадь), Max - самый крупный.
type ZoomRange struct {
	Min ZoomLevel `json:"min_zoom"`
	Max ZoomLevel `json:"max_zoom"`
}

// Valid проверяет, что границы конечны и Min <= Max
func (r ZoomRange) Valid() bool {
	for _, z := range []ZoomLevel{r.Min, r.Max} {
		if math.IsNaN(float64(z)) || math.IsInf(float64(z), 0) {
			return false
		}
	}
	return r.Min <= r.Max
}

// Contains проверяет, что z лежит в диапазоне
func (r ZoomRange) Contains(z ZoomLevel) bool {
	return z >= r.Min && z <= r.Max
}

// TerminationReason - причина остановки подбора зума
type TerminationReason string

const (
	// TargetReachedWithinRadius - найдено больше целевого числа POI, не выходя за радиус
	TargetReachedWithinRadius TerminationReason = "target_reached_within_radius"
	// FirstMatchBeyondRadius - видимая область вышла за радиус и найден хотя бы один POI
	FirstMatchBeyondRadius TerminationReason = "first_match_beyond_radius"
	// ZoomLimitReached - достигнут минимальный масштаб хоста
	ZoomLimitReached TerminationReason = "zoom_limit_reached"
)

// TerminationReasons - все возможные причины остановки
var TerminationReasons = []TerminationReason{
	TargetReachedWithinRadius,
	FirstMatchBeyondRadius,
	ZoomLimitReached,
}

// SearchRequest - входные данные подбора зума
type SearchRequest struct {
	Reference   Coordinate
	RadiusKm    float64 // 0 - без ограничения радиуса
	TargetCount int
	POIs        []*POI
}

// SearchResult - результат подбора зума
type SearchResult struct {
	Zoom    ZoomLevel
	Bounds  Bounds
	Matched []*POI // в порядке обнаружения, без повторов
	Reason  TerminationReason
	// Queries - количество запросов видимой области у хоста
	Queries int
}
