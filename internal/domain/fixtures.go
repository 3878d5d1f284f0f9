package domain

// ParisReference - опорная точка демо-сценария (Марсово поле)
var ParisReference = Coordinate{Lat: 48.858023, Lon: 2.294855}

const (
	// DemoRadiusKm - радиус поиска демо-сценария
	DemoRadiusKm = 7
	// DemoTargetCount - целевое число POI демо-сценария
	DemoTargetCount = 1
)

// ParisLandmarks возвращает набор достопримечательностей Парижа для демо и тестов.
// Каждый вызов создаёт новые значения.
func ParisLandmarks() []*POI {
	return []*POI{
		landmark("american-library", "American Library", "American Library in Paris", 48.858814, 2.299018),
		landmark("champ-de-mars", "Champ de Mars", "Champ de Mars 7th arr", 48.855878, 2.298074),
		landmark("trocadero", "Trocadéro", "Jardins du Trocadéro", 48.861807, 2.288933),
		landmark("champs-elysees", "Champs-Elysées", "Champs-Elysées 8th arr", 48.866183, 2.307816),
		landmark("unesco", "UNESCO", "UNESCO 15th arr", 48.845457, 2.304876),
		landmark("conseil-regional", "Conseil Régional", "Conseil Régional IDF", 48.851924, 2.317472),
	}
}

func landmark(id, name, description string, lat, lon float64) *POI {
	return &POI{
		ID:          id,
		Name:        name,
		Category:    "landmark",
		Description: &description,
		Coordinate:  Coordinate{Lat: lat, Lon: lon},
	}
}
