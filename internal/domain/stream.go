package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamZoomSelect = "stream:zoom:select"
	StreamZoomDone   = "stream:zoom:done"
)

// ZoomSelectEvent - входящее событие на подбор зума
type ZoomSelectEvent struct {
	RequestID   uuid.UUID   `json:"request_id"`
	Reference   Coordinate  `json:"reference"`
	RadiusKm    float64     `json:"radius_km"`
	TargetCount int         `json:"target_count"`
	MinZoom     *float64    `json:"min_zoom,omitempty"`
	MaxZoom     *float64    `json:"max_zoom,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
	POIs        []StreamPOI `json:"pois,omitempty"`
}

// StreamPOI - POI внутри события
type StreamPOI struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ZoomDoneEvent - результат подбора зума
type ZoomDoneEvent struct {
	RequestID uuid.UUID       `json:"request_id"`
	Result    *ZoomDoneResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ZoomDoneResult - итог подбора в событии
type ZoomDoneResult struct {
	Zoom       float64  `json:"zoom"`
	Bounds     Bounds   `json:"bounds"`
	MatchedIDs []string `json:"matched_ids"`
	Reason     string   `json:"reason"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
