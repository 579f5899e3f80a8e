package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/response-analytics-service/internal/cache"
	"github.com/SAP-F-2025/response-analytics-service/internal/events"
	"github.com/SAP-F-2025/response-analytics-service/internal/models"
	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/response-analytics-service/internal/validator"
)

// duplicateGuardTTL bounds how long a (session, question number) pair blocks
// re-submission. Sessions are short-lived; a day is generous.
const duplicateGuardTTL = 24 * time.Hour

// ResponseService records and reads scored response events
type ResponseService interface {
	RecordResponse(ctx context.Context, event *models.ResponseEvent) (*models.ResponseWithDerived, error)
	GetResponse(ctx context.Context, id uint) (*models.ResponseWithDerived, error)
	GetSessionResponses(ctx context.Context, sessionID string) ([]*models.ResponseWithDerived, error)
	ListResponses(ctx context.Context, filters repositories.ResponseListFilters) ([]*models.ResponseWithDerived, int64, error)
}

type responseService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewResponseService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger *slog.Logger,
	validator *validator.Validator,
) ResponseService {
	return &responseService{
		repo:      repo,
		publisher: publisher,
		cache:     cacheService,
		logger:    logger,
		validator: validator,
	}
}

// RecordResponse validates a candidate event and appends it to the store.
// Validation failures are terminal for this single event and never reach the
// store; store failures propagate unchanged with no retry.
func (s *responseService) RecordResponse(ctx context.Context, event *models.ResponseEvent) (*models.ResponseWithDerived, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if verr := s.validator.ValidateResponseEvent(event); verr != nil {
		s.logger.Warn("Rejected response event",
			"session_id", event.SessionID,
			"field", verr.Field,
			"rule", verr.Rule)
		return nil, verr
	}

	guardKey, err := s.acquireDuplicateGuard(ctx, event)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Response().Append(ctx, event); err != nil {
		// The event was never stored, so the guard must not block a retry.
		s.releaseDuplicateGuard(ctx, guardKey)
		return nil, fmt.Errorf("failed to append response: %w", err)
	}

	annotated := Annotate(event)

	s.publishRecorded(ctx, annotated)

	s.logger.Info("Recorded response",
		"response_id", event.ID,
		"session_id", event.SessionID,
		"question_id", event.QuestionID,
		"correct", event.Correct)

	return annotated, nil
}

func (s *responseService) GetResponse(ctx context.Context, id uint) (*models.ResponseWithDerived, error) {
	event, err := s.repo.Response().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	return Annotate(event), nil
}

func (s *responseService) GetSessionResponses(ctx context.Context, sessionID string) ([]*models.ResponseWithDerived, error) {
	stored, err := s.repo.Response().GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session responses: %w", err)
	}

	annotated := make([]*models.ResponseWithDerived, 0, len(stored))
	for _, event := range stored {
		annotated = append(annotated, Annotate(event))
	}
	return annotated, nil
}

func (s *responseService) ListResponses(ctx context.Context, filters repositories.ResponseListFilters) ([]*models.ResponseWithDerived, int64, error) {
	stored, total, err := s.repo.Response().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list responses: %w", err)
	}

	annotated := make([]*models.ResponseWithDerived, 0, len(stored))
	for _, event := range stored {
		annotated = append(annotated, Annotate(event))
	}
	return annotated, total, nil
}

// acquireDuplicateGuard guards against double submission of the same question
// within a session and returns the key it claimed so a failed write can hand
// it back. A cache outage degrades to no guard rather than blocking writes.
func (s *responseService) acquireDuplicateGuard(ctx context.Context, event *models.ResponseEvent) (string, error) {
	if s.cache == nil {
		return "", nil
	}

	key := fmt.Sprintf("response:%s:%d", event.SessionID, event.QuestionNumber)
	set, err := s.cache.SetIfAbsent(ctx, key, event.QuestionID, duplicateGuardTTL)
	if err != nil {
		s.logger.Warn("Duplicate guard unavailable", "key", key, "error", err)
		return "", nil
	}
	if !set {
		return "", ErrDuplicateResponse
	}
	return key, nil
}

// releaseDuplicateGuard frees a claimed guard key after a failed append.
// Best effort: a stuck key expires with its TTL.
func (s *responseService) releaseDuplicateGuard(ctx context.Context, key string) {
	if s.cache == nil || key == "" {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to release duplicate guard", "key", key, "error", err)
	}
}

// publishRecorded emits the recorded-response event. Eventing is ancillary to
// the write path, so failures are logged and not surfaced to the caller.
func (s *responseService) publishRecorded(ctx context.Context, annotated *models.ResponseWithDerived) {
	if s.publisher == nil {
		return
	}

	payload := events.ResponseRecordedEvent{
		ResponseID:       annotated.ID,
		SessionID:        annotated.SessionID,
		QuestionID:       annotated.QuestionID,
		QuestionNumber:   annotated.QuestionNumber,
		Topic:            annotated.Topic,
		Correct:          annotated.Correct,
		ResponseTimeMs:   annotated.ResponseTimeMs,
		Difficulty:       annotated.Difficulty,
		DifficultyLevel:  string(annotated.DifficultyLevel),
		PerformanceScore: annotated.PerformanceScore,
		StudentAbility:   annotated.StudentAbility,
		RecordedAt:       annotated.Timestamp,
	}

	event := events.NewAnalyticsEvent(events.EventResponseRecorded, payload)
	if err := s.publisher.PublishAnalyticsEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish recorded-response event",
			"response_id", annotated.ID,
			"error", err)
	}
}
