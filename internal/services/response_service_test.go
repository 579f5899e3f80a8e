package services

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	apperrors "github.com/SAP-F-2025/response-analytics-service/internal/errors"
	"github.com/SAP-F-2025/response-analytics-service/internal/events"
	"github.com/SAP-F-2025/response-analytics-service/internal/models"
	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/response-analytics-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockResponseRepository is a mock implementation of ResponseRepository
type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Append(ctx context.Context, event *models.ResponseEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockResponseRepository) GetByID(ctx context.Context, id uint) (*models.ResponseEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResponseEvent), args.Error(1)
}

func (m *MockResponseRepository) FetchMatching(ctx context.Context, filters repositories.ResponseFilters) ([]*models.ResponseEvent, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ResponseEvent), args.Error(1)
}

func (m *MockResponseRepository) List(ctx context.Context, filters repositories.ResponseListFilters) ([]*models.ResponseEvent, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.ResponseEvent), args.Get(1).(int64), args.Error(2)
}

func (m *MockResponseRepository) GetBySession(ctx context.Context, sessionID string) ([]*models.ResponseEvent, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ResponseEvent), args.Error(1)
}

func (m *MockResponseRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

// mockRepository aggregates the mocked repositories
type mockRepository struct {
	response *MockResponseRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{response: &MockResponseRepository{}}
}

func (m *mockRepository) Response() repositories.ResponseRepository {
	return m.response
}

// memoryCache is an in-memory CacheService for tests
type memoryCache struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{keys: make(map[string]struct{})}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[key] = struct{}{}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, key)
	return nil
}

func (c *memoryCache) SetIfAbsent(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.keys[key]; exists {
		return false, nil
	}
	c.keys[key] = struct{}{}
	return true, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestResponseService(repo *mockRepository, publisher *events.MockEventPublisher) ResponseService {
	return NewResponseService(repo, publisher, newMemoryCache(), testLogger(), validator.New())
}

func validResponseEvent() *models.ResponseEvent {
	return &models.ResponseEvent{
		SessionID:      "sess-1",
		QuestionID:     "q-1",
		AnswerIndex:    1,
		Correct:        true,
		ResponseTimeMs: 15000,
		QuestionNumber: 3,
		Difficulty:     0.4,
		Topic:          "Fractions",
		StudentAbility: 0.55,
	}
}

func TestRecordResponse_Success(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestResponseService(repo, publisher)

	repo.response.On("Append", mock.Anything, mock.AnythingOfType("*models.ResponseEvent")).Return(nil)

	event := validResponseEvent()
	annotated, err := service.RecordResponse(context.Background(), event)

	require.NoError(t, err)
	assert.False(t, annotated.Timestamp.IsZero(), "timestamp should default to creation time")
	assert.Equal(t, models.DifficultyMedium, annotated.DifficultyLevel)
	assert.Equal(t, 15.0, annotated.ResponseTimeSeconds)
	// 0.5*0.3 + 0.7 + 0.4*0.2 = 0.93, below the clamp so the formula shows.
	assert.InDelta(t, 0.93, annotated.PerformanceScore, 1e-9)

	repo.response.AssertCalled(t, "Append", mock.Anything, mock.AnythingOfType("*models.ResponseEvent"))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventResponseRecorded, published[0].Type)

	payload, ok := published[0].Data.(events.ResponseRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, "sess-1", payload.SessionID)
	assert.Equal(t, annotated.PerformanceScore, payload.PerformanceScore)
}

func TestRecordResponse_ValidationFailureNeverReachesStore(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestResponseService(repo, publisher)

	event := validResponseEvent()
	event.AnswerIndex = -1

	_, err := service.RecordResponse(context.Background(), event)

	require.Error(t, err)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "answer_index", verr.Field)

	repo.response.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestRecordResponse_NegativeResponseTimeRejected(t *testing.T) {
	repo := newMockRepository()
	service := newTestResponseService(repo, events.NewMockEventPublisher(testLogger()))

	event := validResponseEvent()
	event.ResponseTimeMs = -5

	_, err := service.RecordResponse(context.Background(), event)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "response_time_ms", verr.Field)
}

func TestRecordResponse_DuplicateSubmission(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestResponseService(repo, publisher)

	repo.response.On("Append", mock.Anything, mock.AnythingOfType("*models.ResponseEvent")).Return(nil)

	_, err := service.RecordResponse(context.Background(), validResponseEvent())
	require.NoError(t, err)

	_, err = service.RecordResponse(context.Background(), validResponseEvent())
	assert.ErrorIs(t, err, ErrDuplicateResponse)

	repo.response.AssertNumberOfCalls(t, "Append", 1)
}

func TestRecordResponse_StoreFailurePropagates(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestResponseService(repo, publisher)

	storeErr := assert.AnError
	repo.response.On("Append", mock.Anything, mock.AnythingOfType("*models.ResponseEvent")).Return(storeErr)

	_, err := service.RecordResponse(context.Background(), validResponseEvent())

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr, "store failure must propagate unchanged")
	assert.Empty(t, publisher.GetPublishedEvents(), "no event on failed append")
}

func TestRecordResponse_RetryAfterStoreFailureSucceeds(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := newTestResponseService(repo, publisher)

	repo.response.On("Append", mock.Anything, mock.AnythingOfType("*models.ResponseEvent")).Return(assert.AnError).Once()
	repo.response.On("Append", mock.Anything, mock.AnythingOfType("*models.ResponseEvent")).Return(nil).Once()

	_, err := service.RecordResponse(context.Background(), validResponseEvent())
	require.Error(t, err)

	// The failed write never stored the event, so the same submission must
	// not be treated as a duplicate.
	annotated, err := service.RecordResponse(context.Background(), validResponseEvent())
	require.NoError(t, err)
	assert.NotNil(t, annotated)

	repo.response.AssertNumberOfCalls(t, "Append", 2)
}

func TestRecordResponse_KeepsExplicitTimestamp(t *testing.T) {
	repo := newMockRepository()
	service := newTestResponseService(repo, events.NewMockEventPublisher(testLogger()))

	repo.response.On("Append", mock.Anything, mock.AnythingOfType("*models.ResponseEvent")).Return(nil)

	recorded := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	event := validResponseEvent()
	event.Timestamp = recorded

	annotated, err := service.RecordResponse(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, recorded, annotated.Timestamp)
}

func TestGetSessionResponses_AnnotatesEveryEvent(t *testing.T) {
	repo := newMockRepository()
	service := newTestResponseService(repo, events.NewMockEventPublisher(testLogger()))

	stored := []*models.ResponseEvent{
		{SessionID: "sess-1", QuestionID: "q-1", QuestionNumber: 1, Correct: true, ResponseTimeMs: 2000, Difficulty: 0.2, Topic: "Algebra", StudentAbility: 0.5},
		{SessionID: "sess-1", QuestionID: "q-2", QuestionNumber: 2, Correct: false, ResponseTimeMs: 31000, Difficulty: 0.9, Topic: "Algebra", StudentAbility: 0.5},
	}
	repo.response.On("GetBySession", mock.Anything, "sess-1").Return(stored, nil)

	annotated, err := service.GetSessionResponses(context.Background(), "sess-1")

	require.NoError(t, err)
	require.Len(t, annotated, 2)
	assert.Equal(t, models.DifficultyEasy, annotated[0].DifficultyLevel)
	assert.Equal(t, models.DifficultyHard, annotated[1].DifficultyLevel)
	assert.Equal(t, 0.0, annotated[1].PerformanceScore, "slow wrong answer scores zero")
}
