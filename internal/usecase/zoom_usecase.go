package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/pkg/errors"
	"github.com/poi-zoom-service/internal/pkg/metrics"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"github.com/poi-zoom-service/internal/selector"
	"github.com/poi-zoom-service/internal/usecase/dto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SelectionCacheKeyPrefix - префикс ключей кеша результатов подбора
const SelectionCacheKeyPrefix = "zoom:selection:"

// ZoomUseCase подбирает масштаб карты, при котором вокруг точки видно нужное число POI
type ZoomUseCase struct {
	viewportRepo repository.ViewportRepository
	poiRepo      repository.POIRepository
	cacheRepo    repository.CacheRepository
	selector     *selector.ZoomLevelSelector
	cacheTTL     time.Duration
	maxPOIs      int
	inflight     singleflight.Group
	logger       *zap.Logger
}

// NewZoomUseCase создает новый экземпляр ZoomUseCase
func NewZoomUseCase(
	viewportRepo repository.ViewportRepository,
	poiRepo repository.POIRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
	maxPOIs int,
	logger *zap.Logger,
) *ZoomUseCase {
	return &ZoomUseCase{
		viewportRepo: viewportRepo,
		poiRepo:      poiRepo,
		cacheRepo:    cacheRepo,
		selector:     selector.New(logger),
		cacheTTL:     cacheTTL,
		maxPOIs:      maxPOIs,
		logger:       logger,
	}
}

// SelectZoom подбирает масштаб для запроса. Одинаковые запросы обслуживаются
// из кеша, одновременные одинаковые запросы выполняются один раз.
func (uc *ZoomUseCase) SelectZoom(
	ctx context.Context,
	req dto.ZoomSelectRequest,
) (*dto.ZoomSelectResponse, error) {
	// 1. Проверяем входные данные
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, uc.fail(errors.ErrInvalidCoordinates)
	}
	if !utils.ValidateRadius(req.RadiusKm) {
		return nil, uc.fail(errors.ErrInvalidRadius)
	}
	if req.TargetCount < 0 {
		return nil, uc.fail(errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"target_count": "must be non-negative",
		}))
	}

	reference := domain.Coordinate{Lat: req.Lat, Lon: req.Lon}

	// 2. Диапазон масштабов: из запроса или у хоста
	zr, err := uc.resolveZoomRange(ctx, req.MinZoom, req.MaxZoom)
	if err != nil {
		return nil, uc.fail(err)
	}

	// 3. Набор POI: из запроса или из базы
	pois, err := uc.resolvePOIs(ctx, req, reference, zr)
	if err != nil {
		return nil, uc.fail(err)
	}

	searchReq := domain.SearchRequest{
		Reference:   reference,
		RadiusKm:    req.RadiusKm,
		TargetCount: req.TargetCount,
		POIs:        pois,
	}
	key := selectionCacheKey(searchReq, zr)

	// 4. Кеш
	if cached := uc.getCached(ctx, key); cached != nil {
		cached.RequestID = uuid.NewString()
		cached.Cached = true
		return cached, nil
	}

	// 5. Подбор
	v, err, shared := uc.inflight.Do(key, func() (interface{}, error) {
		return uc.runSelection(ctx, searchReq, zr, key)
	})
	if err != nil {
		return nil, uc.fail(err)
	}
	if shared {
		uc.logger.Debug("Zoom selection shared with concurrent request", zap.String("key", key))
	}

	resp := *v.(*dto.ZoomSelectResponse)
	resp.RequestID = uuid.NewString()
	return &resp, nil
}

// Demo повторяет исходный сценарий: Марсово поле, радиус 7 км, больше одной достопримечательности
func (uc *ZoomUseCase) Demo(ctx context.Context) (*dto.ZoomSelectResponse, error) {
	landmarks := domain.ParisLandmarks()
	pois := make([]dto.POIInput, 0, len(landmarks))
	for _, p := range landmarks {
		pois = append(pois, dto.POIInput{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Lat:      p.Coordinate.Lat,
			Lon:      p.Coordinate.Lon,
		})
	}

	return uc.SelectZoom(ctx, dto.ZoomSelectRequest{
		Lat:         domain.ParisReference.Lat,
		Lon:         domain.ParisReference.Lon,
		RadiusKm:    domain.DemoRadiusKm,
		TargetCount: domain.DemoTargetCount,
		POIs:        pois,
	})
}

// GetZoomRange возвращает диапазон масштабов хоста
func (uc *ZoomUseCase) GetZoomRange(ctx context.Context) (*dto.ZoomRangeResponse, error) {
	zr, err := uc.viewportRepo.ZoomRange(ctx)
	if err != nil {
		uc.logger.Error("Failed to get host zoom range", zap.Error(err))
		return nil, errors.ErrViewportProvider.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	resp := toZoomRangeResponse(zr)
	return &resp, nil
}

func (uc *ZoomUseCase) runSelection(
	ctx context.Context,
	req domain.SearchRequest,
	zr domain.ZoomRange,
	key string,
) (*dto.ZoomSelectResponse, error) {
	start := time.Now()

	provider := selector.BoundsProviderFunc(func(zoom domain.ZoomLevel) (domain.Bounds, error) {
		return uc.viewportRepo.VisibleBounds(ctx, req.Reference, zoom)
	})

	result, err := uc.selector.Select(req, zr, provider)
	if err != nil {
		uc.logger.Warn("Zoom selection failed",
			zap.Stringer("reference", req.Reference),
			zap.Error(err))
		return nil, mapSelectionError(err, zr)
	}

	elapsed := time.Since(start)
	metrics.ObserveSelection(string(result.Reason), result.Queries, elapsed)

	uc.logger.Info("Zoom selected",
		zap.Stringer("reference", req.Reference),
		zap.Float64("zoom", float64(result.Zoom)),
		zap.String("reason", string(result.Reason)),
		zap.Int("matched", len(result.Matched)),
		zap.Int("queries", result.Queries),
		zap.Duration("elapsed", elapsed))

	// Статистика и кеш не влияют на результат
	if err := uc.cacheRepo.IncrSelectionStat(ctx, result.Reason); err != nil {
		uc.logger.Warn("Failed to record selection stat", zap.Error(err))
	}

	resp := buildSelectResponse(result, req.Reference, zr)
	uc.setCached(ctx, key, resp)

	return resp, nil
}

func (uc *ZoomUseCase) resolveZoomRange(ctx context.Context, minZoom, maxZoom *float64) (domain.ZoomRange, error) {
	var zr domain.ZoomRange
	if minZoom == nil || maxZoom == nil {
		host, err := uc.viewportRepo.ZoomRange(ctx)
		if err != nil {
			uc.logger.Error("Failed to get host zoom range", zap.Error(err))
			return domain.ZoomRange{}, errors.ErrViewportProvider.WithDetails(map[string]interface{}{
				"reason": err.Error(),
			})
		}
		zr = host
	}
	if minZoom != nil {
		zr.Min = domain.ZoomLevel(*minZoom)
	}
	if maxZoom != nil {
		zr.Max = domain.ZoomLevel(*maxZoom)
	}

	if !zr.Valid() {
		return domain.ZoomRange{}, invalidRangeError(zr)
	}
	return zr, nil
}

func (uc *ZoomUseCase) resolvePOIs(
	ctx context.Context,
	req dto.ZoomSelectRequest,
	reference domain.Coordinate,
	zr domain.ZoomRange,
) ([]*domain.POI, error) {
	if len(req.POIs) > 0 {
		pois := make([]*domain.POI, 0, len(req.POIs))
		for _, p := range req.POIs {
			pois = append(pois, &domain.POI{
				ID:         p.ID,
				Name:       p.Name,
				Category:   p.Category,
				Coordinate: domain.Coordinate{Lat: p.Lat, Lon: p.Lon},
			})
		}
		return pois, nil
	}

	// Самая широкая видимая область содержит все области, которые посетит подбор
	widest, err := uc.viewportRepo.VisibleBounds(ctx, reference, zr.Min)
	if err == nil {
		err = widest.Validate()
	}
	if err != nil {
		uc.logger.Error("Failed to get widest viewport",
			zap.Float64("zoom", float64(zr.Min)),
			zap.Error(err))
		return nil, errors.ErrViewportProvider.WithDetails(map[string]interface{}{
			"zoom":   float64(zr.Min),
			"reason": err.Error(),
		})
	}

	// При превышении SELECTION_MAX_POIS отбрасываются самые дальние от опорной точки
	pois, err := uc.poiRepo.GetNearestPOI(ctx, widest, reference, req.Categories, uc.maxPOIs)
	if err != nil {
		uc.logger.Error("Failed to load POIs for selection", zap.Error(err))
		return nil, err
	}

	uc.logger.Debug("POIs loaded from storage",
		zap.Int("count", len(pois)),
		zap.Strings("categories", req.Categories))

	return pois, nil
}

func (uc *ZoomUseCase) getCached(ctx context.Context, key string) *dto.ZoomSelectResponse {
	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to read selection cache", zap.Error(err))
		return nil
	}
	if data == nil {
		metrics.CacheMisses.WithLabelValues("zoom_selection").Inc()
		return nil
	}

	var resp dto.ZoomSelectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		uc.logger.Warn("Failed to unmarshal cached selection", zap.String("key", key), zap.Error(err))
		return nil
	}

	metrics.CacheHits.WithLabelValues("zoom_selection").Inc()
	return &resp
}

func (uc *ZoomUseCase) setCached(ctx context.Context, key string, resp *dto.ZoomSelectResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		uc.logger.Warn("Failed to marshal selection for cache", zap.Error(err))
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache selection", zap.String("key", key), zap.Error(err))
	}
}

// fail учитывает ошибку в метриках и возвращает её без изменений
func (uc *ZoomUseCase) fail(err error) error {
	code := errors.ErrInternalServer.Code
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		code = appErr.Code
	}
	metrics.SelectionErrors.WithLabelValues(code).Inc()
	return err
}

func mapSelectionError(err error, zr domain.ZoomRange) error {
	var perr *selector.ProviderError
	switch {
	case stderrors.Is(err, selector.ErrInvalidRange):
		return invalidRangeError(zr)
	case stderrors.Is(err, selector.ErrInvalidRequest):
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	case stderrors.As(err, &perr):
		return errors.ErrViewportProvider.WithDetails(map[string]interface{}{
			"zoom":   float64(perr.Zoom),
			"reason": perr.Err.Error(),
		})
	default:
		return errors.ErrInternalServer
	}
}

func invalidRangeError(zr domain.ZoomRange) error {
	return errors.ErrInvalidZoomRange.WithDetails(map[string]interface{}{
		"min_zoom": float64(zr.Min),
		"max_zoom": float64(zr.Max),
	})
}

// selectionCacheKey строит ключ из всего, что влияет на результат подбора
func selectionCacheKey(req domain.SearchRequest, zr domain.ZoomRange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s,%s|%s|%d|%s|%s",
		formatKeyFloat(req.Reference.Lat),
		formatKeyFloat(req.Reference.Lon),
		formatKeyFloat(req.RadiusKm),
		req.TargetCount,
		formatKeyFloat(float64(zr.Min)),
		formatKeyFloat(float64(zr.Max)),
	)
	// Длина перед ID: разделители внутри ID не склеивают разные наборы POI
	for _, p := range req.POIs {
		fmt.Fprintf(&b, "|%d:%s@%s,%s", len(p.ID), p.ID,
			formatKeyFloat(p.Coordinate.Lat), formatKeyFloat(p.Coordinate.Lon))
	}

	sum := md5.Sum([]byte(b.String()))
	return SelectionCacheKeyPrefix + hex.EncodeToString(sum[:])
}

// formatKeyFloat даёт кратчайшее точное представление числа
func formatKeyFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func buildSelectResponse(
	result *domain.SearchResult,
	reference domain.Coordinate,
	zr domain.ZoomRange,
) *dto.ZoomSelectResponse {
	matched := make([]dto.POISimple, 0, len(result.Matched))
	for _, p := range result.Matched {
		matched = append(matched, toPOISimple(p, reference))
	}

	return &dto.ZoomSelectResponse{
		Zoom:         float64(result.Zoom),
		Bounds:       result.Bounds,
		Matched:      matched,
		MatchedCount: len(matched),
		Reason:       result.Reason,
		Queries:      result.Queries,
		ZoomRange:    toZoomRangeResponse(zr),
	}
}

func toPOISimple(p *domain.POI, from domain.Coordinate) dto.POISimple {
	return dto.POISimple{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Lat:      p.Coordinate.Lat,
		Lon:      p.Coordinate.Lon,
		Distance: utils.HaversineDistance(from.Lat, from.Lon, p.Coordinate.Lat, p.Coordinate.Lon) * 1000, // to meters
	}
}

func toZoomRangeResponse(zr domain.ZoomRange) dto.ZoomRangeResponse {
	return dto.ZoomRangeResponse{
		MinZoom: float64(zr.Min),
		MaxZoom: float64(zr.Max),
	}
}
