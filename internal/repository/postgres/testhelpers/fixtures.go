package testhelpers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/poi-zoom-service/internal/domain"
)

// InsertPOI adds a single POI row, the geometry is built from lat/lon
func InsertPOI(db *sql.DB, externalID, category string, lat, lon float64) error {
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO pois (external_id, name, category, lat, lon, geometry)
		VALUES ($1, $1, $2, $3, $4, ST_SetSRID(ST_MakePoint($4, $3), 4326))
	`, externalID, category, lat, lon)
	if err != nil {
		return fmt.Errorf("insert poi %s: %w", externalID, err)
	}
	return nil
}

// LoadParisLandmarks inserts the Paris landmark set in its canonical order
func LoadParisLandmarks(db *sql.DB) error {
	for _, p := range domain.ParisLandmarks() {
		if err := InsertPOI(db, p.ID, p.Category, p.Coordinate.Lat, p.Coordinate.Lon); err != nil {
			return err
		}
	}
	return nil
}
