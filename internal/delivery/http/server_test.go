package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/delivery/http"
	"github.com/poi-zoom-service/internal/delivery/http/handler"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/infrastructure/viewport"
	"github.com/poi-zoom-service/internal/pkg/utils"
	"github.com/poi-zoom-service/internal/usecase"
	"github.com/poi-zoom-service/internal/usecase/dto"
)

// memoryCache - кеш в памяти вместо Redis
type memoryCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	stats map[domain.TerminationReason]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		data:  make(map[string][]byte),
		stats: make(map[domain.TerminationReason]int64),
	}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *memoryCache) IncrSelectionStat(_ context.Context, reason domain.TerminationReason) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[reason]++
	return nil
}

func (m *memoryCache) GetSelectionStats(_ context.Context) (map[domain.TerminationReason]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.TerminationReason]int64, len(domain.TerminationReasons))
	for _, r := range domain.TerminationReasons {
		out[r] = m.stats[r]
	}
	return out, nil
}

// landmarkStore отдаёт парижские достопримечательности, попавшие в область
type landmarkStore struct {
	lastCategories []string
}

func (s *landmarkStore) GetByID(_ context.Context, id string) (*domain.POI, error) {
	for _, p := range domain.ParisLandmarks() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *landmarkStore) GetPOIInBBox(
	_ context.Context,
	bounds domain.Bounds,
	categories []string,
	limit int,
) ([]*domain.POI, error) {
	s.lastCategories = categories
	out := make([]*domain.POI, 0)
	for _, p := range domain.ParisLandmarks() {
		if bounds.Contains(p.Coordinate) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *landmarkStore) GetNearestPOI(
	ctx context.Context,
	bounds domain.Bounds,
	reference domain.Coordinate,
	categories []string,
	limit int,
) ([]*domain.POI, error) {
	out, _ := s.GetPOIInBBox(ctx, bounds, categories, len(domain.ParisLandmarks()))
	sort.SliceStable(out, func(i, j int) bool {
		return utils.HaversineDistance(reference.Lat, reference.Lon, out[i].Coordinate.Lat, out[i].Coordinate.Lon) <
			utils.HaversineDistance(reference.Lat, reference.Lon, out[j].Coordinate.Lat, out[j].Coordinate.Lon)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *landmarkStore) GetCategories(_ context.Context) ([]*domain.POICategory, error) {
	return []*domain.POICategory{{Code: "landmark", Count: 6}}, nil
}

type envelopeMeta struct {
	Total  int  `json:"total"`
	Limit  int  `json:"limit"`
	Cached bool `json:"cached"`
}

type envelopeError struct {
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  *envelopeMeta   `json:"meta"`
	Error *envelopeError  `json:"error"`
}

type testServer struct {
	server *http.Server
	store  *landmarkStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	vp, err := viewport.NewMercatorViewport(&config.ViewportConfig{
		WidthPx:  1080,
		HeightPx: 1920,
		TileSize: 256,
		MinZoom:  2,
		MaxZoom:  21,
	}, logger)
	require.NoError(t, err)

	cache := newMemoryCache()
	store := &landmarkStore{}

	zoomUC := usecase.NewZoomUseCase(vp, store, cache, time.Minute, 500, logger)
	viewportUC := usecase.NewViewportUseCase(vp, logger)
	poiUC := usecase.NewPOIUseCase(store, logger)
	statsUC := usecase.NewStatsUseCase(cache, logger)

	server := http.NewServer(
		&config.Config{},
		logger,
		handler.NewZoomHandler(zoomUC, logger),
		handler.NewViewportHandler(viewportUC, poiUC, logger),
		handler.NewPOIHandler(poiUC, logger),
		handler.NewStatsHandler(statsUC, logger),
	)
	return &testServer{server: server, store: store}
}

func (ts *testServer) do(t *testing.T, method, target string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.server.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(t, "GET", "/api/v1/health", nil)
	assert.Equal(t, 200, status)
}

func TestServer_ZoomDemoAndStats(t *testing.T) {
	ts := newTestServer(t)

	status, env := ts.do(t, "GET", "/api/v1/zoom/demo", nil)
	require.Equal(t, 200, status)

	var first dto.ZoomSelectResponse
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, 17.0, first.Zoom)
	assert.Equal(t, domain.TargetReachedWithinRadius, first.Reason)
	assert.False(t, first.Cached)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Total)

	status, env = ts.do(t, "GET", "/api/v1/zoom/demo", nil)
	require.Equal(t, 200, status)

	var second dto.ZoomSelectResponse
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.True(t, second.Cached)
	require.NotNil(t, env.Meta)
	assert.True(t, env.Meta.Cached)
	assert.Equal(t, first.Zoom, second.Zoom)
	assert.NotEqual(t, first.RequestID, second.RequestID)

	status, env = ts.do(t, "GET", "/api/v1/stats", nil)
	require.Equal(t, 200, status)

	var stats dto.SelectionStatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Reasons[domain.TargetReachedWithinRadius])
}

func TestServer_ZoomSelect(t *testing.T) {
	ts := newTestServer(t)

	t.Run("from storage with categories", func(t *testing.T) {
		status, env := ts.do(t, "POST", "/api/v1/zoom/select", map[string]interface{}{
			"lat":          domain.ParisReference.Lat,
			"lon":          domain.ParisReference.Lon,
			"radius_km":    7,
			"target_count": 1,
			"categories":   []string{"landmark"},
		})
		require.Equal(t, 200, status)

		var resp dto.ZoomSelectResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, 17.0, resp.Zoom)
		assert.Equal(t, []string{"landmark"}, ts.store.lastCategories)
	})

	t.Run("malformed body", func(t *testing.T) {
		status, env := ts.do(t, "POST", "/api/v1/zoom/select", "{not json")
		assert.Equal(t, 400, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		status, env := ts.do(t, "POST", "/api/v1/zoom/select", map[string]interface{}{
			"lat": 100,
			"lon": 0,
		})
		assert.Equal(t, 400, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_REQUEST", env.Error.Code)
	})

	t.Run("inverted zoom range", func(t *testing.T) {
		status, env := ts.do(t, "POST", "/api/v1/zoom/select", map[string]interface{}{
			"lat":      0,
			"lon":      0,
			"min_zoom": 9,
			"max_zoom": 4,
		})
		assert.Equal(t, 400, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_ZOOM_RANGE", env.Error.Code)
	})
}

func TestServer_ZoomRange(t *testing.T) {
	ts := newTestServer(t)

	status, env := ts.do(t, "GET", "/api/v1/zoom/range", nil)
	require.Equal(t, 200, status)

	var zr dto.ZoomRangeResponse
	require.NoError(t, json.Unmarshal(env.Data, &zr))
	assert.Equal(t, dto.ZoomRangeResponse{MinZoom: 2, MaxZoom: 21}, zr)
}

func TestServer_Viewport(t *testing.T) {
	ts := newTestServer(t)

	t.Run("bounds", func(t *testing.T) {
		status, env := ts.do(t, "GET", "/api/v1/viewport/bounds?lat=-17.7134&lon=179.99&zoom=10", nil)
		require.Equal(t, 200, status)

		var resp dto.ViewportBoundsResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.True(t, resp.CrossesAntimeridian)
	})

	t.Run("bounds missing zoom", func(t *testing.T) {
		status, env := ts.do(t, "GET", "/api/v1/viewport/bounds?lat=1&lon=1", nil)
		assert.Equal(t, 400, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "required", env.Error.Details["zoom"])
	})

	t.Run("poi", func(t *testing.T) {
		status, env := ts.do(t, "GET",
			"/api/v1/viewport/poi?sw_lat=48.85&sw_lon=2.29&ne_lat=48.86&ne_lon=2.30&categories=landmark,%20museum&limit=5", nil)
		require.Equal(t, 200, status)

		var resp dto.ViewportPOIResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, 5, resp.Limit)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, []string{"landmark", "museum"}, ts.store.lastCategories)
	})

	t.Run("poi inverted bounds", func(t *testing.T) {
		status, env := ts.do(t, "GET", "/api/v1/viewport/poi?sw_lat=49&sw_lon=2&ne_lat=48&ne_lon=3", nil)
		assert.Equal(t, 400, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_BOUNDS", env.Error.Code)
	})
}

func TestServer_CategoriesMetricsAndNotFound(t *testing.T) {
	ts := newTestServer(t)

	status, env := ts.do(t, "GET", "/api/v1/poi/categories", nil)
	require.Equal(t, 200, status)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.Total)

	status, _ = ts.do(t, "GET", "/metrics", nil)
	assert.Equal(t, 200, status)

	status, env = ts.do(t, "GET", "/api/v1/unknown", nil)
	assert.Equal(t, 404, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
