package location

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/property-service/internal/domain"
	"github.com/property-service/internal/pkg/errors"
	"github.com/property-service/internal/usecase/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, maxCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

type MockLocationRefresher struct {
	mock.Mock
}

func (m *MockLocationRefresher) GetPropertyLocation(ctx context.Context, id uuid.UUID, force bool) (*dto.LocationResult, error) {
	args := m.Called(ctx, id, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LocationResult), args.Error(1)
}

func eventMessage(t *testing.T, id string, event domain.LocationRefreshEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func TestParseMessage(t *testing.T) {
	id := uuid.New()

	event, err := parseMessage(domain.StreamMessage{ID: "1-0", Data: `{"property_id":"` + id.String() + `","reason":"created"}`})
	require.NoError(t, err)
	assert.Equal(t, id, event.PropertyID)
	assert.Equal(t, domain.RefreshReasonCreated, event.Reason)

	_, err = parseMessage(domain.StreamMessage{ID: "2-0"})
	assert.Error(t, err)

	_, err = parseMessage(domain.StreamMessage{ID: "3-0", Data: "{not json"})
	assert.Error(t, err)

	_, err = parseMessage(domain.StreamMessage{ID: "4-0", Data: `{"reason":"manual"}`})
	assert.Error(t, err)
}

func TestRefreshWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	streamRepo := new(MockStreamRepository)
	refresher := new(MockLocationRefresher)
	w := NewRefreshWorker(streamRepo, refresher, "test-group", 10, zap.NewNop())

	okID := uuid.New()
	failedID := uuid.New()

	nearby := domain.NewNearbyAmenities()
	nearby.Add(domain.NearbyPlace{Name: "Metro", SubType: "metro", Category: domain.CategoryTransit, DistanceMeters: 300})
	nearby.Add(domain.NearbyPlace{Name: "Cafe", SubType: "cafe", Category: domain.CategoryCafe, DistanceMeters: 120})

	messages := []domain.StreamMessage{
		eventMessage(t, "1-0", domain.LocationRefreshEvent{PropertyID: okID, Reason: domain.RefreshReasonCreated}),
		{ID: "2-0", Data: "garbage"},
		eventMessage(t, "3-0", domain.LocationRefreshEvent{PropertyID: failedID}),
	}

	streamRepo.On("ConsumeBatch", ctx, domain.StreamLocationRefresh, "test-group", w.ConsumerName(), 10).Return(messages, nil)
	streamRepo.On("AckMessage", ctx, domain.StreamLocationRefresh, "test-group", "2-0").Return(nil)
	streamRepo.On("AckMessages", ctx, domain.StreamLocationRefresh, "test-group", []string{"1-0", "3-0"}).Return(nil)

	refresher.On("GetPropertyLocation", ctx, okID, true).Return(&dto.LocationResult{
		Coordinates:     domain.Coordinates{Lat: 18.52, Lng: 73.85},
		NearbyAmenities: nearby,
	}, nil)
	refresher.On("GetPropertyLocation", ctx, failedID, true).Return(nil, errors.ErrLocationUnresolvable)

	streamRepo.On("PublishToStream", ctx, domain.StreamLocationRefreshed, mock.MatchedBy(func(e *domain.LocationRefreshedEvent) bool {
		return e.PropertyID == okID && e.Coordinates != nil && e.Coordinates.Lat == 18.52 && e.PlacesCount == 2 && e.Error == ""
	})).Return(nil).Once()
	streamRepo.On("PublishToStream", ctx, domain.StreamLocationRefreshed, mock.MatchedBy(func(e *domain.LocationRefreshedEvent) bool {
		return e.PropertyID == failedID && e.Coordinates == nil && e.Error == "LOCATION_UNRESOLVABLE"
	})).Return(nil).Once()

	processed, err := w.processBatch(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	streamRepo.AssertExpectations(t)
	refresher.AssertExpectations(t)
}

func TestRefreshWorker_ProcessBatch_Empty(t *testing.T) {
	ctx := context.Background()
	streamRepo := new(MockStreamRepository)
	refresher := new(MockLocationRefresher)
	w := NewRefreshWorker(streamRepo, refresher, "test-group", 0, zap.NewNop())

	streamRepo.On("ConsumeBatch", ctx, domain.StreamLocationRefresh, "test-group", w.ConsumerName(), defaultBatchSize).Return(nil, nil)

	processed, err := w.processBatch(ctx)

	require.NoError(t, err)
	assert.Zero(t, processed)
	streamRepo.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	refresher.AssertNotCalled(t, "GetPropertyLocation", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshWorker_ProcessBatch_ConsumeError(t *testing.T) {
	ctx := context.Background()
	streamRepo := new(MockStreamRepository)
	w := NewRefreshWorker(streamRepo, new(MockLocationRefresher), "test-group", 5, zap.NewNop())

	streamRepo.On("ConsumeBatch", ctx, domain.StreamLocationRefresh, "test-group", w.ConsumerName(), 5).
		Return(nil, stderrors.New("connection reset"))

	_, err := w.processBatch(ctx)
	assert.Error(t, err)
}

func TestRefreshWorker_PublishFailureStillAcks(t *testing.T) {
	ctx := context.Background()
	streamRepo := new(MockStreamRepository)
	refresher := new(MockLocationRefresher)
	w := NewRefreshWorker(streamRepo, refresher, "test-group", 5, zap.NewNop())

	id := uuid.New()
	streamRepo.On("ConsumeBatch", ctx, domain.StreamLocationRefresh, "test-group", w.ConsumerName(), 5).
		Return([]domain.StreamMessage{eventMessage(t, "9-0", domain.LocationRefreshEvent{PropertyID: id})}, nil)
	refresher.On("GetPropertyLocation", ctx, id, true).Return(&dto.LocationResult{}, nil)
	streamRepo.On("PublishToStream", ctx, domain.StreamLocationRefreshed, mock.Anything).Return(stderrors.New("redis down"))
	streamRepo.On("AckMessages", ctx, domain.StreamLocationRefresh, "test-group", []string{"9-0"}).Return(nil)

	processed, err := w.processBatch(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	streamRepo.AssertExpectations(t)
}

func TestRefreshWorker_StartStop(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	w := NewRefreshWorker(streamRepo, new(MockLocationRefresher), "test-group", 5, zap.NewNop())

	streamRepo.On("CreateConsumerGroup", mock.Anything, domain.StreamLocationRefresh, "test-group").Return(nil)
	streamRepo.On("ConsumeBatch", mock.Anything, domain.StreamLocationRefresh, "test-group", w.ConsumerName(), 5).Return(nil, nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Start(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRefreshWorker_StartGroupError(t *testing.T) {
	streamRepo := new(MockStreamRepository)
	w := NewRefreshWorker(streamRepo, new(MockLocationRefresher), "test-group", 5, zap.NewNop())

	streamRepo.On("CreateConsumerGroup", mock.Anything, domain.StreamLocationRefresh, "test-group").
		Return(stderrors.New("NOPERM"))

	assert.Error(t, w.Start(context.Background()))
}
