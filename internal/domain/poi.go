package domain

import "time"

// POI представляет точку интереса. Для алгоритма подбора зума значимы только
// ID и Coordinate, остальные поля описательные.
type POI struct {
	ID          string     `json:"id" db:"external_id"`
	Name        string     `json:"name,omitempty" db:"name"`
	Category    string     `json:"category,omitempty" db:"category"`
	Description *string    `json:"description,omitempty" db:"description"`
	Coordinate  Coordinate `json:"coordinate"`
	CreatedAt   time.Time  `json:"-" db:"created_at"`
}

// POICategory - категория POI со счётчиком записей
type POICategory struct {
	Code  string `json:"code" db:"category"`
	Count int    `json:"count" db:"count"`
}
