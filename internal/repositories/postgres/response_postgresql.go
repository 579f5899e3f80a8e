package postgres

import (
	"context"

	"github.com/SAP-F-2025/response-analytics-service/internal/models"
	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r ResponsePostgreSQL) Append(ctx context.Context, event *models.ResponseEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r ResponsePostgreSQL) GetByID(ctx context.Context, id uint) (*models.ResponseEvent, error) {
	var event models.ResponseEvent
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r ResponsePostgreSQL) FetchMatching(ctx context.Context, filters repositories.ResponseFilters) ([]*models.ResponseEvent, error) {
	var events []*models.ResponseEvent

	query := r.db.WithContext(ctx).Model(&models.ResponseEvent{})
	query = r.applyFilters(query, filters)

	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r ResponsePostgreSQL) List(ctx context.Context, filters repositories.ResponseListFilters) ([]*models.ResponseEvent, int64, error) {
	var events []*models.ResponseEvent
	var total int64

	// apply filter first
	query := r.db.WithContext(ctx).Model(&models.ResponseEvent{})
	query = r.applyFilters(query, filters.ResponseFilters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = r.applyPaginationAndSort(query, filters)

	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r ResponsePostgreSQL) GetBySession(ctx context.Context, sessionID string) ([]*models.ResponseEvent, error) {
	var events []*models.ResponseEvent
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_number ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r ResponsePostgreSQL) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ResponseEvent{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// ===== FILTER HELPERS =====

func (r ResponsePostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResponseFilters) *gorm.DB {
	if filters.SessionID != nil {
		query = query.Where("session_id = ?", *filters.SessionID)
	}
	if filters.QuestionID != nil {
		query = query.Where("question_id = ?", *filters.QuestionID)
	}
	if filters.Topic != nil {
		query = query.Where("topic ILIKE ?", "%"+*filters.Topic+"%")
	}
	// Date bounds are inclusive on both ends.
	if filters.DateFrom != nil {
		query = query.Where("timestamp >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("timestamp <= ?", *filters.DateTo)
	}
	return query
}

func (r ResponsePostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ResponseListFilters) *gorm.DB {
	sortBy := filters.SortBy
	if sortBy != "timestamp" && sortBy != "question_number" && sortBy != "created_at" {
		sortBy = "timestamp"
	}
	sortOrder := filters.SortOrder
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
