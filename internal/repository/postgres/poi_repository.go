package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/pkg/errors"
	"go.uber.org/zap"
)

type poiRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPOIRepository(db *DB) repository.POIRepository {
	return &poiRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *poiRepository) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	query := `
		SELECT external_id, name, category, COALESCE(description, '') AS description, lat, lon, created_at
		FROM pois
		WHERE external_id = $1
	`

	var poi domain.POI
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&poi.ID, &poi.Name, &poi.Category, &poi.Description,
		&poi.Coordinate.Lat, &poi.Coordinate.Lon, &poi.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrLocationNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get POI by ID", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &poi, nil
}

// GetPOIInBBox возвращает POI внутри bounds в порядке добавления в базу.
// Область через антимеридиан разбивается на два конверта.
func (r *poiRepository) GetPOIInBBox(
	ctx context.Context,
	bounds domain.Bounds,
	categories []string,
	limit int,
) ([]*domain.POI, error) {
	if err := bounds.Validate(); err != nil {
		return nil, errors.ErrInvalidBounds.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	query, args := bboxQuery(bounds, categories)
	query += fmt.Sprintf(" ORDER BY id LIMIT $%d", len(args)+1)
	args = append(args, normalizeLimit(limit))

	return r.queryPOIs(ctx, bounds, query, args)
}

// GetNearestPOI возвращает до limit POI внутри bounds, ближайших к reference.
// Лимит не ограничивается MaxQueryLimit: его задаёт SELECTION_MAX_POIS
func (r *poiRepository) GetNearestPOI(
	ctx context.Context,
	bounds domain.Bounds,
	reference domain.Coordinate,
	categories []string,
	limit int,
) ([]*domain.POI, error) {
	if err := bounds.Validate(); err != nil {
		return nil, errors.ErrInvalidBounds.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	query, args := bboxQuery(bounds, categories)
	// geography: расстояние по сфере, без искажений у антимеридиана
	query += fmt.Sprintf(
		" ORDER BY geometry::geography <-> ST_SetSRID(ST_MakePoint($%d, $%d), %d)::geography, id LIMIT $%d",
		len(args)+1, len(args)+2, SRID4326, len(args)+3,
	)
	args = append(args, reference.Lon, reference.Lat, limit)

	return r.queryPOIs(ctx, bounds, query, args)
}

// bboxQuery собирает SELECT с фильтром по области и категориям, без ORDER BY
func bboxQuery(bounds domain.Bounds, categories []string) (string, []interface{}) {
	var (
		envelopes = splitBounds(bounds)
		filters   = make([]string, 0, len(envelopes))
		args      = make([]interface{}, 0, len(envelopes)*4+4)
		argIdx    = 1
	)
	for _, e := range envelopes {
		filters = append(filters, fmt.Sprintf(
			"geometry && ST_MakeEnvelope($%d, $%d, $%d, $%d, %d)",
			argIdx, argIdx+1, argIdx+2, argIdx+3, SRID4326,
		))
		args = append(args, e.West, e.South, e.East, e.North)
		argIdx += 4
	}

	query := `
		SELECT external_id, name, category, COALESCE(description, '') AS description, lat, lon, created_at
		FROM pois
		WHERE (` + strings.Join(filters, " OR ") + `)`

	if len(categories) > 0 {
		query += fmt.Sprintf(" AND category = ANY($%d)", argIdx)
		args = append(args, pq.Array(categories))
	}

	return query, args
}

func (r *poiRepository) queryPOIs(
	ctx context.Context,
	bounds domain.Bounds,
	query string,
	args []interface{},
) ([]*domain.POI, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to get POIs in bbox",
			zap.Stringer("northeast", bounds.NorthEast),
			zap.Stringer("southwest", bounds.SouthWest),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	pois := make([]*domain.POI, 0)
	for rows.Next() {
		var p domain.POI
		err := rows.Scan(
			&p.ID, &p.Name, &p.Category, &p.Description,
			&p.Coordinate.Lat, &p.Coordinate.Lon, &p.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan POI", zap.Error(err))
			continue
		}
		pois = append(pois, &p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate POIs", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	r.logger.Debug("POIs loaded for bbox",
		zap.Int("count", len(pois)),
		zap.Bool("crosses_antimeridian", bounds.CrossesAntimeridian()))

	return pois, nil
}

func (r *poiRepository) GetCategories(ctx context.Context) ([]*domain.POICategory, error) {
	query := `
		SELECT category, COUNT(*) AS count
		FROM pois
		GROUP BY category
		ORDER BY category
	`

	var categories []*domain.POICategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		r.logger.Error("Failed to get POI categories", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return categories, nil
}
