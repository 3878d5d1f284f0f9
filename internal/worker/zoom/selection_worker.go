package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/poi-zoom-service/internal/config"
	"github.com/poi-zoom-service/internal/domain"
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/pkg/metrics"
	"github.com/poi-zoom-service/internal/pkg/validator"
	"github.com/poi-zoom-service/internal/usecase/dto"
	"github.com/poi-zoom-service/internal/worker"
	"go.uber.org/zap"
)

const (
	workerName      = "zoom-selection"
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep      = time.Second            // пауза при ошибке чтения
	publishBackoff  = 50 * time.Millisecond
)

// SelectionUseCase - подбор масштаба, который выполняет воркер
type SelectionUseCase interface {
	SelectZoom(ctx context.Context, req dto.ZoomSelectRequest) (*dto.ZoomSelectResponse, error)
}

// SelectionWorker читает запросы подбора из stream:zoom:select
// и публикует результаты в stream:zoom:done
type SelectionWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	selection    SelectionUseCase
	consumerName string
	maxBatch     int
	maxRetries   int
	readTimeout  time.Duration
	claimMinIdle time.Duration
}

// NewSelectionWorker создает новый SelectionWorker
func NewSelectionWorker(
	streamRepo repository.StreamRepository,
	selection SelectionUseCase,
	cfg *config.WorkerConfig,
	logger *zap.Logger,
) *SelectionWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &SelectionWorker{
		BaseWorker:   worker.NewBaseWorker(workerName, cfg.ConsumerGroup, logger),
		streamRepo:   streamRepo,
		selection:    selection,
		consumerName: consumerName,
		maxBatch:     cfg.MaxBatch,
		maxRetries:   cfg.MaxRetries,
		readTimeout:  cfg.StreamReadTimeout,
		claimMinIdle: cfg.ClaimMinIdle,
	}
}

// Start запускает воркер
func (w *SelectionWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SelectionWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", w.maxBatch))

	// Создаем consumer group
	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamZoomSelect, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// Основной цикл обработки
	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.pause(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.pause(ctx, emptyQueueSleep)
			}
		}
	}
}

// processBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений.
func (w *SelectionWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	readCtx := ctx
	if w.readTimeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, w.readTimeout)
		defer cancel()
	}

	messages, err := w.readMessages(readCtx)
	if err != nil {
		return 0, err
	}

	if len(messages) == 0 {
		return 0, nil // очередь пуста
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	acked := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// ACK битое сообщение чтобы не застревало
			_ = w.streamRepo.AckMessage(ctx, domain.StreamZoomSelect, w.ConsumerGroup(), msg.ID)
			metrics.WorkerMessages.WithLabelValues(workerName, "malformed").Inc()
			continue
		}

		done := w.handle(ctx, event)

		if err := w.publish(ctx, done); err != nil {
			// Не подтверждаем: через claimMinIdle сообщение вернёт readMessages
			logger.Error("Failed to publish done event",
				zap.String("request_id", event.RequestID.String()),
				zap.Error(err))
			metrics.WorkerMessages.WithLabelValues(workerName, "publish_failed").Inc()
			continue
		}

		outcome := "selected"
		if done.Error != "" {
			outcome = "rejected"
		}
		metrics.WorkerMessages.WithLabelValues(workerName, outcome).Inc()
		acked = append(acked, msg.ID)
	}

	if len(acked) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamZoomSelect, w.ConsumerGroup(), acked); err != nil {
			logger.Error("Failed to ack messages", zap.Error(err))
			// Не критично - сообщения останутся в pending и будут забраны повторно
		}
	}

	logger.Info("Batch processed",
		zap.Int("received", len(messages)),
		zap.Int("acked", len(acked)))

	return len(messages), nil
}

// readMessages сначала забирает зависшие в pending сообщения, затем читает новые
func (w *SelectionWorker) readMessages(ctx context.Context) ([]domain.StreamMessage, error) {
	pending, err := w.streamRepo.ClaimPending(
		ctx,
		domain.StreamZoomSelect,
		w.ConsumerGroup(),
		w.consumerName,
		w.claimMinIdle,
		w.maxBatch,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending messages: %w", err)
	}
	if len(pending) > 0 {
		metrics.WorkerMessages.WithLabelValues(workerName, "reclaimed").Add(float64(len(pending)))
		return pending, nil
	}

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamZoomSelect,
		w.ConsumerGroup(),
		w.consumerName,
		w.maxBatch,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume batch: %w", err)
	}
	return messages, nil
}

// handle выполняет подбор для события. Ошибки подбора попадают в событие результата.
func (w *SelectionWorker) handle(ctx context.Context, event *domain.ZoomSelectEvent) *domain.ZoomDoneEvent {
	done := &domain.ZoomDoneEvent{RequestID: event.RequestID}

	req := toRequest(event)
	if err := validator.Validate(&req); err != nil {
		done.Error = err.Error()
		return done
	}

	resp, err := w.selection.SelectZoom(ctx, req)
	if err != nil {
		w.Logger().Warn("Zoom selection rejected",
			zap.String("request_id", event.RequestID.String()),
			zap.Error(err))
		done.Error = err.Error()
		return done
	}

	ids := make([]string, 0, len(resp.Matched))
	for _, p := range resp.Matched {
		ids = append(ids, p.ID)
	}
	done.Result = &domain.ZoomDoneResult{
		Zoom:       resp.Zoom,
		Bounds:     resp.Bounds,
		MatchedIDs: ids,
		Reason:     string(resp.Reason),
	}
	return done
}

// publish отправляет результат, повторяя попытку до maxRetries раз
func (w *SelectionWorker) publish(ctx context.Context, done *domain.ZoomDoneEvent) error {
	var err error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			w.pause(ctx, publishBackoff*time.Duration(attempt))
		}
		if err = w.streamRepo.PublishToStream(ctx, domain.StreamZoomDone, done); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func (w *SelectionWorker) pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	case <-w.StopChan():
	}
}

// parseMessage парсит сообщение из стрима в ZoomSelectEvent
func parseMessage(msg domain.StreamMessage) (*domain.ZoomSelectEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event domain.ZoomSelectEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

func toRequest(event *domain.ZoomSelectEvent) dto.ZoomSelectRequest {
	req := dto.ZoomSelectRequest{
		Lat:         event.Reference.Lat,
		Lon:         event.Reference.Lon,
		RadiusKm:    event.RadiusKm,
		TargetCount: event.TargetCount,
		MinZoom:     event.MinZoom,
		MaxZoom:     event.MaxZoom,
		Categories:  event.Categories,
	}
	if len(event.POIs) > 0 {
		req.POIs = make([]dto.POIInput, 0, len(event.POIs))
		for _, p := range event.POIs {
			req.POIs = append(req.POIs, dto.POIInput{ID: p.ID, Lat: p.Lat, Lon: p.Lon})
		}
	}
	return req
}
