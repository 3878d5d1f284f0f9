package domain

import (
	"fmt"
	"math"
)

// Coordinate - точка в WGS84 (градусы)
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Valid проверяет, что координаты лежат в допустимых диапазонах
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%f,%f)", c.Lat, c.Lon)
}

// Bounds - прямоугольная видимая область карты, заданная северо-восточным
// и юго-западным углами. Если NorthEast.Lon < SouthWest.Lon, область
// пересекает антимеридиан.
type Bounds struct {
	NorthEast Coordinate `json:"northeast"`
	SouthWest Coordinate `json:"southwest"`
}

// Contains проверяет, попадает ли точка в область (границы включительно)
func (b Bounds) Contains(c Coordinate) bool {
	if c.Lat < b.SouthWest.Lat || c.Lat > b.NorthEast.Lat {
		return false
	}
	if b.CrossesAntimeridian() {
		return c.Lon >= b.SouthWest.Lon || c.Lon <= b.NorthEast.Lon
	}
	return c.Lon >= b.SouthWest.Lon && c.Lon <= b.NorthEast.Lon
}

// ContainsBounds проверяет, что other целиком лежит внутри b
func (b Bounds) ContainsBounds(other Bounds) bool {
	if other.SouthWest.Lat < b.SouthWest.Lat || other.NorthEast.Lat > b.NorthEast.Lat {
		return false
	}
	spanB := b.lonSpan()
	if spanB >= 360 {
		return true
	}
	offset := math.Mod(other.SouthWest.Lon-b.SouthWest.Lon+360, 360)
	return offset+other.lonSpan() <= spanB
}

func (b Bounds) lonSpan() float64 {
	if b.CrossesAntimeridian() {
		return b.NorthEast.Lon + 360 - b.SouthWest.Lon
	}
	return b.NorthEast.Lon - b.SouthWest.Lon
}

// CrossesAntimeridian сообщает, переходит ли область через 180-й меридиан
func (b Bounds) CrossesAntimeridian() bool {
	return b.NorthEast.Lon < b.SouthWest.Lon
}

// Validate проверяет, что область не вырождена: северо-восточный угол строго
// севернее юго-западного, долготы различаются, все значения конечны и в диапазоне.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.NorthEast.Lat, b.NorthEast.Lon, b.SouthWest.Lat, b.SouthWest.Lon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounds contain non-finite value")
		}
	}
	if !b.NorthEast.Valid() || !b.SouthWest.Valid() {
		return fmt.Errorf("bounds corner out of range: ne=%s sw=%s", b.NorthEast, b.SouthWest)
	}
	if b.NorthEast.Lat <= b.SouthWest.Lat {
		return fmt.Errorf("northeast %s is not north of southwest %s", b.NorthEast, b.SouthWest)
	}
	if b.NorthEast.Lon == b.SouthWest.Lon {
		return fmt.Errorf("bounds have zero longitude span at %f", b.NorthEast.Lon)
	}
	return nil
}

// Center возвращает центр области с учётом антимеридиана
func (b Bounds) Center() Coordinate {
	lat := (b.NorthEast.Lat + b.SouthWest.Lat) / 2
	east := b.NorthEast.Lon
	if b.CrossesAntimeridian() {
		east += 360
	}
	lon := (b.SouthWest.Lon + east) / 2
	if lon > 180 {
		lon -= 360
	}
	return Coordinate{Lat: lat, Lon: lon}
}
