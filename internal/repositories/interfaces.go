package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/response-analytics-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// ResponseFilters narrows which responses a query considers. A nil field
// imposes no restriction on that dimension.
type ResponseFilters struct {
	SessionID  *string    `json:"session_id"`  // exact match
	QuestionID *string    `json:"question_id"` // exact match
	Topic      *string    `json:"topic"`       // case-insensitive substring match
	DateFrom   *time.Time `json:"date_from"`   // inclusive lower bound on timestamp
	DateTo     *time.Time `json:"date_to"`     // inclusive upper bound on timestamp
}

// ResponseListFilters adds pagination and ordering for list endpoints.
type ResponseListFilters struct {
	ResponseFilters
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "timestamp", "question_number"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY INTERFACES =====

// ResponseRepository is the abstract response store the engine consumes.
// Append is a single write, never a multi-step transaction; FetchMatching
// delivers a complete snapshot of matching events for one aggregation call.
type ResponseRepository interface {
	Append(ctx context.Context, event *models.ResponseEvent) error
	GetByID(ctx context.Context, id uint) (*models.ResponseEvent, error)
	FetchMatching(ctx context.Context, filters ResponseFilters) ([]*models.ResponseEvent, error)
	List(ctx context.Context, filters ResponseListFilters) ([]*models.ResponseEvent, int64, error)
	GetBySession(ctx context.Context, sessionID string) ([]*models.ResponseEvent, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
}

// Repository aggregates all repositories used by the service layer.
type Repository interface {
	Response() ResponseRepository
}
