package handlers

import (
	"github.com/SAP-F-2025/response-analytics-service/internal/services"
	"github.com/SAP-F-2025/response-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	responseHandler   *ResponseHandler
	statisticsHandler *StatisticsHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		responseHandler:   NewResponseHandler(serviceManager.Response(), logger),
		statisticsHandler: NewStatisticsHandler(serviceManager.Statistics(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Response routes
		responses := v1.Group("/responses")
		{
			responses.POST("", hm.responseHandler.RecordResponse)
			responses.GET("", hm.responseHandler.ListResponses)
			responses.GET("/:id", hm.responseHandler.GetResponse)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:session_id/responses", hm.responseHandler.GetSessionResponses)
			sessions.GET("/:session_id/summary", hm.statisticsHandler.GetSessionSummary)
		}

		// Statistics routes
		statistics := v1.Group("/statistics")
		{
			statistics.GET("/overall", hm.statisticsHandler.GetOverallStatistics)
			statistics.GET("/topics", hm.statisticsHandler.GetTopicPerformance)
			statistics.GET("/difficulty", hm.statisticsHandler.GetDifficultyPerformance)
			statistics.GET("/export", hm.statisticsHandler.ExportStatisticsReport)
		}
	}
}
