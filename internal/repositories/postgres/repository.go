package postgres

import (
	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	response repositories.ResponseRepository
}

// NewRepository wires the PostgreSQL-backed repositories.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		response: NewResponsePostgreSQL(db),
	}
}

func (r *repository) Response() repositories.ResponseRepository {
	return r.response
}
