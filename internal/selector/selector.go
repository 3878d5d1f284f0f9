// Package selector подбирает самый мелкий масштаб карты, при котором в видимой
// области вокруг опорной точки оказывается достаточно POI.
//
// Поиск начинается с самого крупного масштаба хоста и отдаляется на единицу
// за шаг. На каждом уровне хост сообщает видимую область, новые POI добавляются
// в набор в порядке обнаружения. Правила остановки проверяются по порядку:
//
//   - пока область внутри радиуса, остановиться, когда найдено строго больше
//     целевого числа POI;
//   - после выхода угла области за радиус принять первый уровень хотя бы с одним POI;
//   - остановиться на самом мелком масштабе хоста.
//
// Радиус сравнивается с расстоянием по большому кругу от опорной точки до
// северо-восточного угла области, округлённым до целых километров.
// Радиус 0 отключает проверку.
package selector

import (
	"math"

	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"go.uber.org/zap"
)

// ZoomLevelSelector выполняет поиск с отдалением. Состояния между вызовами нет:
// один экземпляр обслуживает конкурентные вызовы с разными провайдерами.
type ZoomLevelSelector struct {
	logger *zap.Logger
}

// New создает селектор; nil logger отключает логирование
func New(logger *zap.Logger) *ZoomLevelSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZoomLevelSelector{logger: logger}
}

// Select подбирает масштаб для req внутри zr, запрашивая provider один раз на уровень.
// Ошибки: ErrInvalidRange, ErrInvalidRequest или *ProviderError.
func (s *ZoomLevelSelector) Select(
	req domain.SearchRequest,
	zr domain.ZoomRange,
	provider BoundsProvider,
) (*domain.SearchResult, error) {
	if !zr.Valid() || !unitSteppable(zr) {
		return nil, ErrInvalidRange
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		current      = zr.Max
		found        = make([]*domain.POI, 0, len(req.POIs))
		seen         = make(map[string]struct{}, len(req.POIs))
		withinRadius = true
		bounds       domain.Bounds
		queries      int
	)

	for current >= zr.Min {
		b, err := provider.Bounds(current)
		queries++
		if err != nil {
			return nil, &ProviderError{Zoom: current, Err: err}
		}
		if err := b.Validate(); err != nil {
			return nil, &ProviderError{Zoom: current, Err: err}
		}
		bounds = b

		if withinRadius && req.RadiusKm > 0 {
			dist := utils.RoundedDistanceKm(
				req.Reference.Lat, req.Reference.Lon,
				bounds.NorthEast.Lat, bounds.NorthEast.Lon,
			)
			if dist > req.RadiusKm {
				withinRadius = false
			}
		}

		for _, poi := range req.POIs {
			if _, ok := seen[poi.ID]; ok {
				continue
			}
			if bounds.Contains(poi.Coordinate) {
				seen[poi.ID] = struct{}{}
				found = append(found, poi)
			}
		}

		s.logger.Debug("Zoom level evaluated",
			zap.Float64("zoom", float64(current)),
			zap.Stringer("northeast", bounds.NorthEast),
			zap.Stringer("southwest", bounds.SouthWest),
			zap.Int("found", len(found)),
			zap.Bool("within_radius", withinRadius),
		)

		var reason domain.TerminationReason
		switch {
		case withinRadius && len(found) > req.TargetCount:
			reason = domain.TargetReachedWithinRadius
		case !withinRadius && len(found) > 0:
			reason = domain.FirstMatchBeyondRadius
		case current < zr.Min+1:
			reason = domain.ZoomLimitReached
		}

		if reason != "" {
			return &domain.SearchResult{
				Zoom:    current,
				Bounds:  bounds,
				Matched: found,
				Reason:  reason,
				Queries: queries,
			}, nil
		}

		current--
	}

	// Недостижимо: на current < zr.Min+1 срабатывает ZoomLimitReached
	return nil, ErrInvalidRange
}

// unitSteppable проверяет, что шаг в единицу меняет границы диапазона.
// При |z| >= 2^53 вычитание единицы теряется в точности float64.
func unitSteppable(zr domain.ZoomRange) bool {
	return zr.Max-1 != zr.Max && zr.Min+1 != zr.Min
}

func validateRequest(req domain.SearchRequest) error {
	if math.IsNaN(req.RadiusKm) || math.IsInf(req.RadiusKm, 0) || req.RadiusKm < 0 {
		return invalidRequest("radius must be a finite non-negative number, got %v", req.RadiusKm)
	}
	if req.TargetCount < 0 {
		return invalidRequest("target count must be non-negative, got %d", req.TargetCount)
	}
	if !req.Reference.Valid() {
		return invalidRequest("reference %s out of range", req.Reference)
	}

	ids := make(map[string]struct{}, len(req.POIs))
	for i, poi := range req.POIs {
		if poi == nil {
			return invalidRequest("poi at index %d is nil", i)
		}
		if !poi.Coordinate.Valid() {
			return invalidRequest("poi %q coordinate %s out of range", poi.ID, poi.Coordinate)
		}
		if _, dup := ids[poi.ID]; dup {
			return invalidRequest("duplicate poi id %q", poi.ID)
		}
		ids[poi.ID] = struct{}{}
	}
	return nil
}
