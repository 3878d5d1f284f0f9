// Package hostmap - HTTP-клиент удалённого хоста карты
package hostmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type zoomRangeResponse struct {
	MinZoom *float64 `json:"min_zoom"`
	MaxZoom *float64 `json:"max_zoom"`
}

type client struct {
	httpClient *http.Client
	baseURL    string
	widthPx    int
	heightPx   int
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewHostMapClient создает клиент удалённого хоста карты, который сам
// вычисляет видимую область для центра и масштаба
func NewHostMapClient(cfg *config.ViewportConfig, logger *zap.Logger) repository.ViewportRepository {
	limit := rate.Inf
	if cfg.RemoteRPS > 0 {
		limit = rate.Limit(cfg.RemoteRPS)
	}

	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RemoteTimeout,
		},
		baseURL:  cfg.RemoteURL,
		widthPx:  cfg.WidthPx,
		heightPx: cfg.HeightPx,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// ZoomRange запрашивает у хоста допустимый диапазон масштабов
func (c *client) ZoomRange(ctx context.Context) (domain.ZoomRange, error) {
	var resp zoomRangeResponse
	if err := c.get(ctx, "/v1/zoom-range", nil, &resp); err != nil {
		return domain.ZoomRange{}, err
	}
	if resp.MinZoom == nil || resp.MaxZoom == nil {
		return domain.ZoomRange{}, fmt.Errorf("host map zoom range is incomplete")
	}

	return domain.ZoomRange{
		Min: domain.ZoomLevel(*resp.MinZoom),
		Max: domain.ZoomLevel(*resp.MaxZoom),
	}, nil
}

// VisibleBounds запрашивает видимую область при центре center и масштабе zoom
func (c *client) VisibleBounds(
	ctx context.Context,
	center domain.Coordinate,
	zoom domain.ZoomLevel,
) (domain.Bounds, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(center.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(center.Lon, 'f', -1, 64))
	params.Set("zoom", strconv.FormatFloat(float64(zoom), 'f', -1, 64))
	if c.widthPx > 0 && c.heightPx > 0 {
		params.Set("width", strconv.Itoa(c.widthPx))
		params.Set("height", strconv.Itoa(c.heightPx))
	}

	var bounds domain.Bounds
	if err := c.get(ctx, "/v1/viewport", params, &bounds); err != nil {
		return domain.Bounds{}, err
	}

	return bounds, nil
}

func (c *client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	c.logger.Debug("Calling host map API", zap.String("url", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Host map API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("host map API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
