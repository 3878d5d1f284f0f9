package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/poi-zoom-service/internal/domain"
)

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) IncrSelectionStat(ctx context.Context, reason domain.TerminationReason) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}

func (m *MockCacheRepository) GetSelectionStats(ctx context.Context) (map[domain.TerminationReason]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TerminationReason]int64), args.Error(1)
}

// MockPOIRepository is a mock of POIRepository
type MockPOIRepository struct {
	mock.Mock
}

func (m *MockPOIRepository) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.POI), args.Error(1)
}

func (m *MockPOIRepository) GetPOIInBBox(
	ctx context.Context,
	bounds domain.Bounds,
	categories []string,
	limit int,
) ([]*domain.POI, error) {
	args := m.Called(ctx, bounds, categories, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.POI), args.Error(1)
}

func (m *MockPOIRepository) GetNearestPOI(
	ctx context.Context,
	bounds domain.Bounds,
	reference domain.Coordinate,
	categories []string,
	limit int,
) ([]*domain.POI, error) {
	args := m.Called(ctx, bounds, reference, categories, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.POI), args.Error(1)
}

func (m *MockPOIRepository) GetCategories(ctx context.Context) ([]*domain.POICategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.POICategory), args.Error(1)
}

// MockViewportRepository is a mock of ViewportRepository
type MockViewportRepository struct {
	mock.Mock
}

func (m *MockViewportRepository) ZoomRange(ctx context.Context) (domain.ZoomRange, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ZoomRange), args.Error(1)
}

func (m *MockViewportRepository) VisibleBounds(
	ctx context.Context,
	center domain.Coordinate,
	zoom domain.ZoomLevel,
) (domain.Bounds, error) {
	args := m.Called(ctx, center, zoom)
	return args.Get(0).(domain.Bounds), args.Error(1)
}

func ptrFloat64(v float64) *float64 {
	return &v
}
