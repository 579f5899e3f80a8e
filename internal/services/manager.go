package services

import (
	"log/slog"

	"github.com/SAP-F-2025/response-analytics-service/internal/cache"
	"github.com/SAP-F-2025/response-analytics-service/internal/events"
	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/response-analytics-service/internal/validator"
)

// ServiceManager exposes all services to the handler layer
type ServiceManager interface {
	Response() ResponseService
	Statistics() StatisticsService
}

type serviceManager struct {
	response   ResponseService
	statistics StatisticsService
}

func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		response:   NewResponseService(repo, publisher, cacheService, logger, validator),
		statistics: NewStatisticsService(repo, logger),
	}
}

func (m *serviceManager) Response() ResponseService {
	return m.response
}

func (m *serviceManager) Statistics() StatisticsService {
	return m.statistics
}
