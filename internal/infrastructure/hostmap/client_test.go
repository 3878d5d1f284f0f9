package hostmap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig(baseURL string) *config.ViewportConfig {
	return &config.ViewportConfig{
		Provider:      config.ViewportProviderRemote,
		WidthPx:       1080,
		HeightPx:      1920,
		RemoteURL:     baseURL,
		RemoteTimeout: 2 * time.Second,
	}
}

func TestClient_ZoomRange(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/zoom-range", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]float64{"min_zoom": 3, "max_zoom": 21})
		}))
		defer server.Close()

		client := NewHostMapClient(newTestConfig(server.URL), logger)

		zr, err := client.ZoomRange(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.ZoomRange{Min: 3, Max: 21}, zr)
	})

	t.Run("missing field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]float64{"max_zoom": 21})
		}))
		defer server.Close()

		_, err := NewHostMapClient(newTestConfig(server.URL), logger).ZoomRange(context.Background())
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("map not ready"))
		}))
		defer server.Close()

		_, err := NewHostMapClient(newTestConfig(server.URL), logger).ZoomRange(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})
}

func TestClient_VisibleBounds(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/viewport", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "48.858023", q.Get("lat"))
			assert.Equal(t, "2.294855", q.Get("lon"))
			assert.Equal(t, "17", q.Get("zoom"))
			assert.Equal(t, "1080", q.Get("width"))
			assert.Equal(t, "1920", q.Get("height"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"northeast":{"lat":48.8648,"lon":2.3006},"southwest":{"lat":48.8512,"lon":2.2891}}`))
		}))
		defer server.Close()

		client := NewHostMapClient(newTestConfig(server.URL), logger)

		b, err := client.VisibleBounds(context.Background(), domain.ParisReference, 17)
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinate{Lat: 48.8648, Lon: 2.3006}, b.NorthEast)
		assert.Equal(t, domain.Coordinate{Lat: 48.8512, Lon: 2.2891}, b.SouthWest)
	})

	t.Run("invalid json", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"northeast":`))
		}))
		defer server.Close()

		_, err := NewHostMapClient(newTestConfig(server.URL), logger).
			VisibleBounds(context.Background(), domain.ParisReference, 17)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("request must not reach the server")
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewHostMapClient(newTestConfig(server.URL), logger).
			VisibleBounds(ctx, domain.ParisReference, 17)
		assert.Error(t, err)
	})
}
