package dto

// ZoomSelectRequest - запрос на подбор масштаба карты.
// Если POIs пуст, точки берутся из базы в самой широкой видимой области.
type ZoomSelectRequest struct {
	Lat         float64    `json:"lat" validate:"min=-90,max=90"`
	Lon         float64    `json:"lon" validate:"min=-180,max=180"`
	RadiusKm    float64    `json:"radius_km" validate:"min=0,max=20100"`
	TargetCount int        `json:"target_count" validate:"min=0"`
	MinZoom     *float64   `json:"min_zoom,omitempty" validate:"omitempty,min=0,max=30"`
	MaxZoom     *float64   `json:"max_zoom,omitempty" validate:"omitempty,min=0,max=30"`
	Categories  []string   `json:"categories,omitempty" validate:"omitempty,max=20,dive,required"`
	POIs        []POIInput `json:"pois,omitempty" validate:"omitempty,max=5000,dive"`
}

// POIInput - POI, переданный клиентом
type POIInput struct {
	ID       string  `json:"id" validate:"required,max=128"`
	Name     string  `json:"name,omitempty" validate:"max=256"`
	Category string  `json:"category,omitempty" validate:"max=64"`
	Lat      float64 `json:"lat" validate:"min=-90,max=90"`
	Lon      float64 `json:"lon" validate:"min=-180,max=180"`
}

// ViewportBoundsRequest - запрос видимой области для центра и масштаба
type ViewportBoundsRequest struct {
	Lat  float64 `validate:"min=-90,max=90"`
	Lon  float64 `validate:"min=-180,max=180"`
	Zoom float64 `validate:"min=0,max=30"`
}

// ViewportPOIRequest - запрос POI внутри видимой области
type ViewportPOIRequest struct {
	SwLat      float64 `validate:"min=-90,max=90"`
	SwLon      float64 `validate:"min=-180,max=180"`
	NeLat      float64 `validate:"min=-90,max=90"`
	NeLon      float64 `validate:"min=-180,max=180"`
	Limit      int     `validate:"omitempty,min=1,max=1000"`
	Categories []string
}
