// Package viewport моделирует видимую область виджета карты в проекции Web Mercator.
//
// Экран width×height пикселей центрирован на координате. На зуме z ширина всего
// мира tileSize·2^z пикселей, поэтому каждая единица зума вдвое сужает область.
package viewport

import (
	"context"
	"fmt"
	"math"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"go.uber.org/zap"
)

// MaxLatitude - широта, на которой заканчивается квадратный мир Web Mercator
const MaxLatitude = 85.05112878

type mercatorViewport struct {
	widthPx   float64
	heightPx  float64
	tileSize  float64
	zoomRange domain.ZoomRange
	logger    *zap.Logger
}

// NewMercatorViewport создает локальный хост карты на проекции Web Mercator
func NewMercatorViewport(cfg *config.ViewportConfig, logger *zap.Logger) (repository.ViewportRepository, error) {
	if cfg.WidthPx <= 0 || cfg.HeightPx <= 0 || cfg.TileSize <= 0 {
		return nil, fmt.Errorf("viewport size must be positive: %dx%d tile %d", cfg.WidthPx, cfg.HeightPx, cfg.TileSize)
	}
	zr := domain.ZoomRange{Min: domain.ZoomLevel(cfg.MinZoom), Max: domain.ZoomLevel(cfg.MaxZoom)}
	if !zr.Valid() {
		return nil, fmt.Errorf("invalid zoom range %v..%v", cfg.MinZoom, cfg.MaxZoom)
	}

	return &mercatorViewport{
		widthPx:   float64(cfg.WidthPx),
		heightPx:  float64(cfg.HeightPx),
		tileSize:  float64(cfg.TileSize),
		zoomRange: zr,
		logger:    logger,
	}, nil
}

func (v *mercatorViewport) ZoomRange(ctx context.Context) (domain.ZoomRange, error) {
	return v.zoomRange, nil
}

func (v *mercatorViewport) VisibleBounds(
	ctx context.Context,
	center domain.Coordinate,
	zoom domain.ZoomLevel,
) (domain.Bounds, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bounds{}, err
	}
	if !center.Valid() {
		return domain.Bounds{}, fmt.Errorf("center %s out of range", center)
	}
	z := float64(zoom)
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return domain.Bounds{}, fmt.Errorf("zoom must be finite, got %v", z)
	}

	world := v.tileSize * math.Pow(2, z)
	cx, cy := project(center, world)
	halfW, halfH := v.widthPx/2, v.heightPx/2

	top := math.Max(cy-halfH, 0)
	bottom := math.Min(cy+halfH, world)

	var west, east float64
	if v.widthPx >= world {
		west, east = -180, 180
	} else {
		west = wrapLon((cx-halfW)/world*360 - 180)
		east = wrapLon((cx+halfW)/world*360 - 180)
	}

	bounds := domain.Bounds{
		NorthEast: domain.Coordinate{Lat: unprojectLat(top, world), Lon: east},
		SouthWest: domain.Coordinate{Lat: unprojectLat(bottom, world), Lon: west},
	}

	v.logger.Debug("Visible bounds computed",
		zap.Float64("zoom", z),
		zap.Stringer("center", center),
		zap.Stringer("northeast", bounds.NorthEast),
		zap.Stringer("southwest", bounds.SouthWest))

	return bounds, nil
}

// project переводит координату в пиксели мира размером world×world
func project(c domain.Coordinate, world float64) (x, y float64) {
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, c.Lat))
	latRad := lat * math.Pi / 180.0

	x = (c.Lon + 180.0) / 360.0 * world
	y = (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * world
	return x, y
}

func unprojectLat(y, world float64) float64 {
	return math.Atan(math.Sinh(math.Pi*(1.0-2.0*y/world))) * 180.0 / math.Pi
}

func wrapLon(lon float64) float64 {
	if lon < -180 {
		return lon + 360
	}
	if lon > 180 {
		return lon - 360
	}
	return lon
}
