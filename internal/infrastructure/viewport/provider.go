package viewport

import (
	"fmt"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/infrastructure/hostmap"
	"go.uber.org/zap"
)

// New выбирает хост карты по VIEWPORT_PROVIDER
func New(cfg *config.ViewportConfig, logger *zap.Logger) (repository.ViewportRepository, error) {
	switch cfg.Provider {
	case config.ViewportProviderMercator, "":
		return NewMercatorViewport(cfg, logger)
	case config.ViewportProviderRemote:
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("remote viewport provider requires a base URL")
		}
		return hostmap.NewHostMapClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown viewport provider %q", cfg.Provider)
	}
}
