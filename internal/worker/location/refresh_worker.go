package location

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/domain/repository"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/usecase/dto"
	"github.com/property-service/internal/worker"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 20
	emptyQueueSleep  = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep       = time.Second
)

// LocationRefresher - обновление кеша локации по ID объекта
type LocationRefresher interface {
	GetPropertyLocation(ctx context.Context, id uuid.UUID, force bool) (*dto.LocationResult, error)
}

// RefreshWorker читает stream:location:refresh и пересчитывает кеш локации объектов
type RefreshWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	locationUC LocationRefresher
	batchSize  int
}

// NewRefreshWorker создает RefreshWorker
func NewRefreshWorker(
	streamRepo repository.StreamRepository,
	locationUC LocationRefresher,
	consumerGroup string,
	batchSize int,
	logger *zap.Logger,
) *RefreshWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &RefreshWorker{
		BaseWorker: worker.NewBaseWorker("location-refresh", consumerGroup, logger),
		streamRepo: streamRepo,
		locationUC: locationUC,
		batchSize:  batchSize,
	}
}

// Start создаёт consumer group и обрабатывает батчи до Stop или отмены ctx
func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting location refresh worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamLocationRefresh, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		processed, err := w.processBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.sleep(ctx, errorSleep)
			continue
		}
		if processed == 0 {
			w.sleep(ctx, emptyQueueSleep)
		}
	}
}

func (w *RefreshWorker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-w.StopChan():
	case <-ctx.Done():
	}
}

// processBatch читает батч, обновляет локации и подтверждает сообщения.
// Возвращает количество прочитанных сообщений.
func (w *RefreshWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamLocationRefresh,
		w.ConsumerGroup(),
		w.ConsumerName(),
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// битое сообщение не должно висеть в pending
			if err := w.streamRepo.AckMessage(ctx, domain.StreamLocationRefresh, w.ConsumerGroup(), msg.ID); err != nil {
				logger.Warn("Failed to ack malformed message", zap.String("message_id", msg.ID), zap.Error(err))
			}
			continue
		}

		done := w.refresh(ctx, event)
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamLocationRefreshed, done); err != nil {
			logger.Error("Failed to publish refreshed event",
				zap.String("property_id", event.PropertyID.String()),
				zap.Error(err))
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamLocationRefresh, w.ConsumerGroup(), ackIDs); err != nil {
		// не критично - сообщения будут переобработаны
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

func (w *RefreshWorker) refresh(ctx context.Context, event *domain.LocationRefreshEvent) *domain.LocationRefreshedEvent {
	done := &domain.LocationRefreshedEvent{PropertyID: event.PropertyID}

	result, err := w.locationUC.GetPropertyLocation(ctx, event.PropertyID, true)
	if err != nil {
		w.Logger().Warn("Location refresh failed",
			zap.String("property_id", event.PropertyID.String()),
			zap.String("reason", event.Reason),
			zap.Error(err))
		done.Error = errorCode(err)
		return done
	}

	coords := result.Coordinates
	done.Coordinates = &coords
	if result.NearbyAmenities != nil {
		done.PlacesCount = result.NearbyAmenities.Len()
	}
	return done
}

func errorCode(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return err.Error()
}

func parseMessage(msg domain.StreamMessage) (*domain.LocationRefreshEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.LocationRefreshEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.PropertyID == uuid.Nil {
		return nil, fmt.Errorf("missing property_id")
	}

	return &event, nil
}
