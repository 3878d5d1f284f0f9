package selector_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/selector"
)

// recordingProvider отдаёт квадрат вокруг center, полуразмер которого растёт на
// step градусов за каждую единицу масштаба ниже maxZoom, и запоминает вызовы
type recordingProvider struct {
	center  domain.Coordinate
	maxZoom domain.ZoomLevel
	step    float64
	calls   []domain.ZoomLevel
	visited []domain.Bounds
}

func newLinearProvider(center domain.Coordinate, maxZoom domain.ZoomLevel, step float64) *recordingProvider {
	return &recordingProvider{center: center, maxZoom: maxZoom, step: step}
}

func (p *recordingProvider) Bounds(zoom domain.ZoomLevel) (domain.Bounds, error) {
	p.calls = append(p.calls, zoom)
	half := p.step * float64(p.maxZoom-zoom+1)
	b := domain.Bounds{
		NorthEast: domain.Coordinate{Lat: p.center.Lat + half, Lon: p.center.Lon + half},
		SouthWest: domain.Coordinate{Lat: p.center.Lat - half, Lon: p.center.Lon - half},
	}
	p.visited = append(p.visited, b)
	return b, nil
}

func parisRequest(radiusKm float64, target int) domain.SearchRequest {
	return domain.SearchRequest{
		Reference:   domain.ParisReference,
		RadiusKm:    radiusKm,
		TargetCount: target,
		POIs:        domain.ParisLandmarks(),
	}
}

func ids(pois []*domain.POI) []string {
	out := make([]string, 0, len(pois))
	for _, p := range pois {
		out = append(out, p.ID)
	}
	return out
}

var fullRange = domain.ZoomRange{Min: 3, Max: 21}

func TestSelect_ParisTargetReachedWithinRadius(t *testing.T) {
	s := selector.New(zap.NewNop())
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.001)

	result, err := s.Select(parisRequest(7, 1), fullRange, provider)
	require.NoError(t, err)

	assert.Equal(t, domain.TargetReachedWithinRadius, result.Reason)
	assert.Equal(t, domain.ZoomLevel(17), result.Zoom)
	assert.Equal(t, []string{"champ-de-mars", "american-library"}, ids(result.Matched))
	assert.Equal(t, 5, result.Queries)
	assert.Equal(t, provider.visited[len(provider.visited)-1], result.Bounds)
}

func TestSelect_ParisNoRadiusUnreachableTarget(t *testing.T) {
	s := selector.New(zap.NewNop())
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.002)

	result, err := s.Select(parisRequest(0, 10), fullRange, provider)
	require.NoError(t, err)

	assert.Equal(t, domain.ZoomLimitReached, result.Reason)
	assert.Equal(t, fullRange.Min, result.Zoom)
	assert.Equal(t, 19, result.Queries)
	assert.Len(t, result.Matched, 6)
	assert.ElementsMatch(t,
		[]string{"american-library", "champ-de-mars", "trocadero", "champs-elysees", "unesco", "conseil-regional"},
		ids(result.Matched),
	)
}

func TestSelect_SingleLevelRange(t *testing.T) {
	single := domain.ZoomRange{Min: 5, Max: 5}

	t.Run("nothing visible", func(t *testing.T) {
		provider := newLinearProvider(domain.ParisReference, single.Max, 0.001)
		result, err := selector.New(nil).Select(parisRequest(0, 0), single, provider)
		require.NoError(t, err)

		assert.Equal(t, domain.ZoomLimitReached, result.Reason)
		assert.Equal(t, domain.ZoomLevel(5), result.Zoom)
		assert.Empty(t, result.Matched)
		assert.Equal(t, []domain.ZoomLevel{5}, provider.calls)
	})

	t.Run("target exceeded on the only level", func(t *testing.T) {
		provider := newLinearProvider(domain.ParisReference, single.Max, 0.01)
		result, err := selector.New(nil).Select(parisRequest(0, 0), single, provider)
		require.NoError(t, err)

		assert.Equal(t, domain.TargetReachedWithinRadius, result.Reason)
		assert.Equal(t, domain.ZoomLevel(5), result.Zoom)
		assert.Equal(t, []domain.ZoomLevel{5}, provider.calls)
	})
}

func TestSelect_InvalidRange(t *testing.T) {
	provider := newLinearProvider(domain.ParisReference, 3, 0.001)

	tests := []struct {
		name string
		zr   domain.ZoomRange
	}{
		{name: "min above max", zr: domain.ZoomRange{Min: 10, Max: 3}},
		{name: "nan bound", zr: domain.ZoomRange{Min: domain.ZoomLevel(math.NaN()), Max: 3}},
		{name: "infinite bound", zr: domain.ZoomRange{Min: 3, Max: domain.ZoomLevel(math.Inf(1))}},
		{name: "max beyond float step", zr: domain.ZoomRange{Min: 3, Max: 1e17}},
		{name: "single huge level", zr: domain.ZoomRange{Min: 1e17, Max: 1e17}},
		{name: "min beyond float step", zr: domain.ZoomRange{Min: -1e17, Max: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := selector.New(nil).Select(parisRequest(7, 1), tt.zr, provider)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, selector.ErrInvalidRange)
		})
	}
	assert.Empty(t, provider.calls)
}

func TestSelect_TargetZeroStopsOnFirstVisiblePOI(t *testing.T) {
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.005)

	result, err := selector.New(nil).Select(parisRequest(50, 0), fullRange, provider)
	require.NoError(t, err)

	assert.Equal(t, domain.TargetReachedWithinRadius, result.Reason)
	assert.Equal(t, fullRange.Max, result.Zoom)
	assert.GreaterOrEqual(t, len(result.Matched), 1)
	assert.Equal(t, 1, result.Queries)
}

func TestSelect_EmptyPOISet(t *testing.T) {
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.01)
	req := domain.SearchRequest{Reference: domain.ParisReference, RadiusKm: 5, TargetCount: 0}

	result, err := selector.New(nil).Select(req, fullRange, provider)
	require.NoError(t, err)

	assert.Equal(t, domain.ZoomLimitReached, result.Reason)
	assert.Equal(t, fullRange.Min, result.Zoom)
	assert.Empty(t, result.Matched)
	assert.Len(t, provider.calls, 19)
}

func TestSelect_FirstMatchBeyondRadius(t *testing.T) {
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.01)

	result, err := selector.New(nil).Select(parisRequest(1, 5), fullRange, provider)
	require.NoError(t, err)

	// угол на зуме 21 в ~1.3 км (округляется до 1), на зуме 20 в ~2.7 км
	assert.Equal(t, domain.FirstMatchBeyondRadius, result.Reason)
	assert.Equal(t, domain.ZoomLevel(20), result.Zoom)
	assert.Len(t, result.Matched, 5)
	assert.Equal(t, 2, result.Queries)
}

func TestSelect_BeyondRadiusKeepsZoomingUntilAnyMatch(t *testing.T) {
	far := domain.Coordinate{Lat: 48.95, Lon: 2.45}
	req := domain.SearchRequest{
		Reference:   domain.ParisReference,
		RadiusKm:    1,
		TargetCount: 3,
		POIs:        []*domain.POI{{ID: "far", Coordinate: far}},
	}
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.02)

	result, err := selector.New(nil).Select(req, fullRange, provider)
	require.NoError(t, err)

	// far попадает при полуразмере 0.155 градуса: 8 шагов по 0.02
	assert.Equal(t, domain.FirstMatchBeyondRadius, result.Reason)
	assert.Equal(t, domain.ZoomLevel(14), result.Zoom)
	assert.Equal(t, []string{"far"}, ids(result.Matched))
}

func TestSelect_RadiusModeNeverReverts(t *testing.T) {
	calls := 0
	provider := selector.BoundsProviderFunc(func(zoom domain.ZoomLevel) (domain.Bounds, error) {
		calls++
		if calls == 1 {
			// далеко от всех POI и далеко за радиусом
			return domain.Bounds{
				NorthEast: domain.Coordinate{Lat: 1, Lon: 1},
				SouthWest: domain.Coordinate{Lat: 0, Lon: 0},
			}, nil
		}
		// снова сжимается вокруг опорной точки
		return domain.Bounds{
			NorthEast: domain.Coordinate{Lat: domain.ParisReference.Lat + 0.005, Lon: domain.ParisReference.Lon + 0.005},
			SouthWest: domain.Coordinate{Lat: domain.ParisReference.Lat - 0.005, Lon: domain.ParisReference.Lon - 0.005},
		}, nil
	})

	result, err := selector.New(nil).Select(parisRequest(7, 0), fullRange, provider)
	require.NoError(t, err)

	assert.Equal(t, domain.FirstMatchBeyondRadius, result.Reason)
	assert.Equal(t, domain.ZoomLevel(20), result.Zoom)
}

func TestSelect_FractionalRangeNeverLeavesRange(t *testing.T) {
	zr := domain.ZoomRange{Min: 3, Max: 5.5}
	provider := newLinearProvider(domain.ParisReference, zr.Max, 0.0001)
	req := domain.SearchRequest{Reference: domain.ParisReference}

	result, err := selector.New(nil).Select(req, zr, provider)
	require.NoError(t, err)

	assert.Equal(t, []domain.ZoomLevel{5.5, 4.5, 3.5}, provider.calls)
	assert.Equal(t, domain.ZoomLevel(3.5), result.Zoom)
	assert.True(t, zr.Contains(result.Zoom))
	assert.Equal(t, domain.ZoomLimitReached, result.Reason)
}

func TestSelect_VisitedBoundsAreNested(t *testing.T) {
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.002)

	_, err := selector.New(nil).Select(parisRequest(0, 10), fullRange, provider)
	require.NoError(t, err)

	require.Len(t, provider.visited, 19)
	for i := 1; i < len(provider.visited); i++ {
		assert.True(t, provider.visited[i].ContainsBounds(provider.visited[i-1]),
			"bounds at step %d must contain bounds at step %d", i, i-1)
		assert.Less(t, provider.calls[i], provider.calls[i-1])
	}
}

func TestSelect_Idempotent(t *testing.T) {
	s := selector.New(nil)
	req := parisRequest(7, 1)

	first, err := s.Select(req, fullRange, newLinearProvider(domain.ParisReference, fullRange.Max, 0.001))
	require.NoError(t, err)
	second, err := s.Select(req, fullRange, newLinearProvider(domain.ParisReference, fullRange.Max, 0.001))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSelect_MatchedPOIsAreCallerValues(t *testing.T) {
	req := parisRequest(0, 0)
	provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.01)

	result, err := selector.New(nil).Select(req, fullRange, provider)
	require.NoError(t, err)

	require.NotEmpty(t, result.Matched)
	assert.Same(t, req.POIs[0], result.Matched[0])
}

func TestSelect_AntimeridianBounds(t *testing.T) {
	ref := domain.Coordinate{Lat: 0, Lon: 179.99}
	req := domain.SearchRequest{
		Reference:   ref,
		TargetCount: 1,
		POIs: []*domain.POI{
			{ID: "east", Coordinate: domain.Coordinate{Lat: 0.1, Lon: -179.95}},
			{ID: "west", Coordinate: domain.Coordinate{Lat: -0.1, Lon: 179.95}},
			{ID: "elsewhere", Coordinate: domain.Coordinate{Lat: 0, Lon: 0}},
		},
	}
	provider := selector.BoundsProviderFunc(func(zoom domain.ZoomLevel) (domain.Bounds, error) {
		return domain.Bounds{
			NorthEast: domain.Coordinate{Lat: 1, Lon: -179.5},
			SouthWest: domain.Coordinate{Lat: -1, Lon: 179.5},
		}, nil
	})

	result, err := selector.New(nil).Select(req, domain.ZoomRange{Min: 10, Max: 10}, provider)
	require.NoError(t, err)

	assert.Equal(t, domain.TargetReachedWithinRadius, result.Reason)
	assert.Equal(t, []string{"east", "west"}, ids(result.Matched))
}

func TestSelect_ProviderErrors(t *testing.T) {
	backendErr := errors.New("viewport backend unavailable")

	t.Run("provider returns error", func(t *testing.T) {
		provider := selector.BoundsProviderFunc(func(zoom domain.ZoomLevel) (domain.Bounds, error) {
			if zoom < 20 {
				return domain.Bounds{}, backendErr
			}
			return domain.Bounds{
				NorthEast: domain.Coordinate{Lat: 1, Lon: 1},
				SouthWest: domain.Coordinate{Lat: 0, Lon: 0},
			}, nil
		})

		result, err := selector.New(nil).Select(parisRequest(0, 3), fullRange, provider)
		assert.Nil(t, result)

		var perr *selector.ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, domain.ZoomLevel(19), perr.Zoom)
		assert.ErrorIs(t, err, backendErr)
	})

	t.Run("degenerate bounds", func(t *testing.T) {
		tests := []struct {
			name   string
			bounds domain.Bounds
		}{
			{
				name: "northeast south of southwest",
				bounds: domain.Bounds{
					NorthEast: domain.Coordinate{Lat: 48, Lon: 3},
					SouthWest: domain.Coordinate{Lat: 49, Lon: 2},
				},
			},
			{
				name: "zero height",
				bounds: domain.Bounds{
					NorthEast: domain.Coordinate{Lat: 48, Lon: 3},
					SouthWest: domain.Coordinate{Lat: 48, Lon: 2},
				},
			},
			{
				name: "zero width",
				bounds: domain.Bounds{
					NorthEast: domain.Coordinate{Lat: 49, Lon: 2},
					SouthWest: domain.Coordinate{Lat: 48, Lon: 2},
				},
			},
			{
				name: "out of range corner",
				bounds: domain.Bounds{
					NorthEast: domain.Coordinate{Lat: 95, Lon: 3},
					SouthWest: domain.Coordinate{Lat: 48, Lon: 2},
				},
			},
			{
				name: "nan corner",
				bounds: domain.Bounds{
					NorthEast: domain.Coordinate{Lat: math.NaN(), Lon: 3},
					SouthWest: domain.Coordinate{Lat: 48, Lon: 2},
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				provider := selector.BoundsProviderFunc(func(domain.ZoomLevel) (domain.Bounds, error) {
					return tt.bounds, nil
				})
				result, err := selector.New(nil).Select(parisRequest(0, 1), fullRange, provider)
				assert.Nil(t, result)

				var perr *selector.ProviderError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, fullRange.Max, perr.Zoom)
			})
		}
	})
}

func TestSelect_InvalidRequest(t *testing.T) {
	dup := domain.ParisLandmarks()
	dup[1].ID = dup[0].ID

	tests := []struct {
		name string
		req  domain.SearchRequest
	}{
		{name: "negative radius", req: parisRequest(-1, 1)},
		{name: "nan radius", req: parisRequest(math.NaN(), 1)},
		{name: "negative target", req: parisRequest(7, -1)},
		{
			name: "reference out of range",
			req:  domain.SearchRequest{Reference: domain.Coordinate{Lat: 91, Lon: 0}},
		},
		{
			name: "poi out of range",
			req: domain.SearchRequest{
				Reference: domain.ParisReference,
				POIs:      []*domain.POI{{ID: "bad", Coordinate: domain.Coordinate{Lat: 0, Lon: 181}}},
			},
		},
		{
			name: "nil poi",
			req:  domain.SearchRequest{Reference: domain.ParisReference, POIs: []*domain.POI{nil}},
		},
		{
			name: "duplicate ids",
			req:  domain.SearchRequest{Reference: domain.ParisReference, POIs: dup},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newLinearProvider(domain.ParisReference, fullRange.Max, 0.001)
			result, err := selector.New(nil).Select(tt.req, fullRange, provider)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, selector.ErrInvalidRequest)
			assert.Empty(t, provider.calls)
		})
	}
}
