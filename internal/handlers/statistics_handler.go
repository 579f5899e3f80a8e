package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/response-analytics-service/internal/services"
	"github.com/SAP-F-2025/response-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	BaseHandler
	statisticsService services.StatisticsService
}

func NewStatisticsHandler(statisticsService services.StatisticsService, logger utils.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		BaseHandler:       NewBaseHandler(logger),
		statisticsService: statisticsService,
	}
}

// GetOverallStatistics returns the overall summary for matching responses
// @Summary Overall statistics
// @Tags statistics
// @Produce json
// @Param session_id query string false "Exact session match"
// @Param question_id query string false "Exact question match"
// @Param topic query string false "Case-insensitive topic substring"
// @Param date_from query string false "Inclusive RFC3339 lower bound"
// @Param date_to query string false "Inclusive RFC3339 upper bound"
// @Success 200 {object} models.StatisticsSummary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /statistics/overall [get]
func (h *StatisticsHandler) GetOverallStatistics(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	summary, err := h.statisticsService.OverallStatistics(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTopicPerformance returns per-topic aggregates sorted by accuracy rate
// @Summary Topic performance
// @Tags statistics
// @Produce json
// @Success 200 {array} models.TopicPerformance
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /statistics/topics [get]
func (h *StatisticsHandler) GetTopicPerformance(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	results, err := h.statisticsService.TopicPerformance(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetDifficultyPerformance returns per-difficulty-band aggregates
// @Summary Difficulty performance
// @Tags statistics
// @Produce json
// @Success 200 {array} models.DifficultyBandPerformance
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /statistics/difficulty [get]
func (h *StatisticsHandler) GetDifficultyPerformance(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	results, err := h.statisticsService.DifficultyPerformance(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetSessionSummary returns the overall summary restricted to one session
// @Summary Session summary
// @Tags statistics
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} models.StatisticsSummary
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{session_id}/summary [get]
func (h *StatisticsHandler) GetSessionSummary(c *gin.Context) {
	sessionID := c.Param("session_id")

	summary, err := h.statisticsService.SessionSummary(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportStatisticsReport downloads the three aggregations as an Excel workbook
// @Summary Export statistics report
// @Tags statistics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /statistics/export [get]
func (h *StatisticsHandler) ExportStatisticsReport(c *gin.Context) {
	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting statistics report")

	data, err := h.statisticsService.ExportReport(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := "statistics-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// parseFilters builds response filters from query parameters. Absent
// parameters impose no restriction.
func (h *StatisticsHandler) parseFilters(c *gin.Context) (repositories.ResponseFilters, bool) {
	var filters repositories.ResponseFilters

	if sessionID := c.Query("session_id"); sessionID != "" {
		filters.SessionID = &sessionID
	}
	if questionID := c.Query("question_id"); questionID != "" {
		filters.QuestionID = &questionID
	}
	if topic := c.Query("topic"); topic != "" {
		filters.Topic = &topic
	}

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		parsed, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date_from",
				Details: "must be RFC3339",
			})
			return filters, false
		}
		filters.DateFrom = &parsed
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		parsed, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date_to",
				Details: "must be RFC3339",
			})
			return filters, false
		}
		filters.DateTo = &parsed
	}

	return filters, true
}
