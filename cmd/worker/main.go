package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/infrastructure/viewport"
	"github.com/poi-zoom-service/internal/pkg/logger"
	"github.com/poi-zoom-service/internal/repository/cache"
	"github.com/poi-zoom-service/internal/repository/postgres"
	redisRepo "github.com/poi-zoom-service/internal/repository/redis"
	"github.com/poi-zoom-service/internal/usecase"
	"github.com/poi-zoom-service/internal/worker"
	"github.com/poi-zoom-service/internal/worker/zoom"
	"go.uber.org/zap"
)

const serviceName = "poi-zoom-worker"

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Проверяем, включен ли воркер
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
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

	log.Info("Starting Zoom Selection Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_batch", cfg.Worker.MaxBatch),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("viewport_provider", cfg.Viewport.Provider))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(context.Background(), &cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(context.Background(), &cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	poiRepo := postgres.NewPOIRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	viewportRepo, err := viewport.New(&cfg.Viewport, log)
	if err != nil {
		log.Fatal("Failed to initialize viewport provider", zap.Error(err))
	}

	// 6. Initialize use cases
	zoomUC := usecase.NewZoomUseCase(
		viewportRepo,
		poiRepo,
		cacheRepo,
		cfg.Cache.ZoomCacheTTL,
		cfg.Selection.MaxPOIs,
		log,
	)

	// 7. Initialize workers
	selectionWorker := zoom.NewSelectionWorker(streamRepo, zoomUC, &cfg.Worker, log)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(cfg.Worker.ShutdownTimeout, log)
	workerManager.Register(selectionWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Ждём сигнал завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Отменяем контекст воркеров
	cancel()

	// Останавливаем менеджер воркеров
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
