package postgres

import "github.com/poi-zoom-service/internal/domain"

// Константы для лимитов запросов
const (
	// DefaultQueryLimit - лимит по умолчанию для запросов
	DefaultQueryLimit = 100
	// MaxQueryLimit - максимальный лимит для запросов
	MaxQueryLimit = 1000
)

// SRID4326 - WGS84 coordinate system
const SRID4326 = 4326

// envelope - прямоугольник без перехода через антимеридиан, west < east
type envelope struct {
	West, South, East, North float64
}

// splitBounds разбивает область, пересекающую антимеридиан, на две части,
// потому что ST_MakeEnvelope не умеет оборачивать долготу
func splitBounds(b domain.Bounds) []envelope {
	south, north := b.SouthWest.Lat, b.NorthEast.Lat
	if !b.CrossesAntimeridian() {
		return []envelope{{West: b.SouthWest.Lon, South: south, East: b.NorthEast.Lon, North: north}}
	}
	return []envelope{
		{West: b.SouthWest.Lon, South: south, East: 180, North: north},
		{West: -180, South: south, East: b.NorthEast.Lon, North: north},
	}
}

// normalizeLimit приводит лимит к диапазону (0, MaxQueryLimit]
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return limit
}
