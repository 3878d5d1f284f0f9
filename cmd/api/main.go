package main

// @title POI Zoom Service API
// @version 1.0.0
// @description Сервис подбора масштаба карты: находит масштаб, при котором вокруг опорной точки видно нужное число точек интереса (POI).
// @description
// @description Основные возможности:
// @description - Подбор масштаба по набору POI из запроса или из базы
// @description - Видимая область карты для центра и масштаба (Web Mercator или удалённый хост)
// @description - POI в видимой области с учётом антимеридиана
// @description - Статистика причин остановки подбора

// @contact.name API Support
// @contact.email support@poi-zoom-service.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/poi-zoom-service/docs"
	"github.com/poi-zoom-service/internal/config"
	httpDelivery "github.com/poi-zoom-service/internal/delivery/http"
	"github.com/poi-zoom-service/internal/delivery/http/handler"
	"github.com/poi-zoom-service/internal/infrastructure/viewport"
	"github.com/poi-zoom-service/internal/pkg/logger"
	"github.com/poi-zoom-service/internal/repository/cache"
	"github.com/poi-zoom-service/internal/repository/postgres"
	"github.com/poi-zoom-service/internal/usecase"
	"go.uber.org/zap"
)

const serviceName = "poi-zoom-api"

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, serviceName)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting POI Zoom Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("viewport_provider", cfg.Viewport.Provider),
	)

	// 3. Apply migrations
	if cfg.Database.AutoMigrate {
		if err := postgres.MigrateUp(cfg.GetDatabaseURL(), cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// 4. Connect to PostgreSQL
	db, err := postgres.New(context.Background(), &cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	// 5. Connect to Redis
	redisClient, err := cache.NewRedis(context.Background(), &cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// 6. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 7. Initialize Repositories
	poiRepo := postgres.NewPOIRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	viewportRepo, err := viewport.New(&cfg.Viewport, log)
	if err != nil {
		log.Fatal("Failed to initialize viewport provider", zap.Error(err))
	}

	log.Info("Repositories initialized")

	// 8. Initialize Use Cases
	zoomUC := usecase.NewZoomUseCase(
		viewportRepo,
		poiRepo,
		cacheRepo,
		cfg.Cache.ZoomCacheTTL,
		cfg.Selection.MaxPOIs,
		log,
	)
	viewportUC := usecase.NewViewportUseCase(viewportRepo, log)
	poiUC := usecase.NewPOIUseCase(poiRepo, log)
	statsUC := usecase.NewStatsUseCase(cacheRepo, log)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	zoomHandler := handler.NewZoomHandler(zoomUC, log)
	viewportHandler := handler.NewViewportHandler(viewportUC, poiUC, log)
	poiHandler := handler.NewPOIHandler(poiUC, log)
	statsHandler := handler.NewStatsHandler(statsUC, log)

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		zoomHandler,
		viewportHandler,
		poiHandler,
		statsHandler,
	)

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
