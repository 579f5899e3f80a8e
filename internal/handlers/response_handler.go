package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/response-analytics-service/internal/models"
	"github.com/SAP-F-2025/response-analytics-service/internal/repositories"
	"github.com/SAP-F-2025/response-analytics-service/internal/services"
	"github.com/SAP-F-2025/response-analytics-service/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type ResponseHandler struct {
	BaseHandler
	responseService services.ResponseService
}

func NewResponseHandler(responseService services.ResponseService, logger utils.Logger) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:     NewBaseHandler(logger),
		responseService: responseService,
	}
}

// RecordResponseRequest is the payload for recording a response event
type RecordResponseRequest struct {
	SessionID      string                 `json:"session_id"`
	QuestionID     string                 `json:"question_id"`
	AnswerIndex    int                    `json:"answer_index"`
	Correct        bool                   `json:"correct"`
	ResponseTimeMs int                    `json:"response_time_ms"`
	Timestamp      *time.Time             `json:"timestamp,omitempty"`
	QuestionNumber int                    `json:"question_number"`
	Difficulty     float64                `json:"difficulty"`
	Topic          string                 `json:"topic"`
	StudentAbility float64                `json:"student_ability"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// RecordResponse records a single scored response event
// @Summary Record response
// @Description Validates and stores one response event, returning its derived annotations
// @Tags responses
// @Accept json
// @Produce json
// @Param response body RecordResponseRequest true "Response event"
// @Success 201 {object} models.ResponseWithDerived
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /responses [post]
func (h *ResponseHandler) RecordResponse(c *gin.Context) {
	var req RecordResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	event := &models.ResponseEvent{
		SessionID:      req.SessionID,
		QuestionID:     req.QuestionID,
		AnswerIndex:    req.AnswerIndex,
		Correct:        req.Correct,
		ResponseTimeMs: req.ResponseTimeMs,
		QuestionNumber: req.QuestionNumber,
		Difficulty:     req.Difficulty,
		Topic:          req.Topic,
		StudentAbility: req.StudentAbility,
	}
	if req.Timestamp != nil {
		event.Timestamp = *req.Timestamp
	}
	if req.Metadata != nil {
		metadata, err := json.Marshal(req.Metadata)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid metadata",
				Details: err.Error(),
			})
			return
		}
		event.Metadata = datatypes.JSON(metadata)
	}

	annotated, err := h.responseService.RecordResponse(c.Request.Context(), event)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, annotated)
}

// GetResponse retrieves a response with derived annotations
// @Summary Get response
// @Description Retrieves a stored response event; score and difficulty level are recomputed on read
// @Tags responses
// @Produce json
// @Param id path uint true "Response ID"
// @Success 200 {object} models.ResponseWithDerived
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /responses/{id} [get]
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid id",
			Details: err.Error(),
		})
		return
	}

	annotated, err := h.responseService.GetResponse(c.Request.Context(), uint(id))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, annotated)
}

// ListResponses lists responses matching the given filters
// @Summary List responses
// @Tags responses
// @Produce json
// @Param session_id query string false "Exact session match"
// @Param question_id query string false "Exact question match"
// @Param topic query string false "Case-insensitive topic substring"
// @Param date_from query string false "Inclusive RFC3339 lower bound"
// @Param date_to query string false "Inclusive RFC3339 upper bound"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /responses [get]
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	var filters repositories.ResponseListFilters

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
			return
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
			return
		}
		filters.DateTo = &parsed
	}

	filters.Limit = 50
	if limit := c.Query("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid limit",
				Details: "must be between 1 and 500",
			})
			return
		}
		filters.Limit = parsed
	}
	if offset := c.Query("offset"); offset != "" {
		parsed, err := strconv.Atoi(offset)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid offset",
				Details: "must be non-negative",
			})
			return
		}
		filters.Offset = parsed
	}

	responses, total, err := h.responseService.ListResponses(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Responses retrieved",
		Data: gin.H{
			"responses": responses,
			"total":     total,
			"limit":     filters.Limit,
			"offset":    filters.Offset,
		},
	})
}

// GetSessionResponses lists a session's responses in question order
// @Summary List session responses
// @Tags responses
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{session_id}/responses [get]
func (h *ResponseHandler) GetSessionResponses(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("session_id"))
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid session_id",
			Details: "session_id cannot be empty",
		})
		return
	}

	h.LogRequest(c, "Listing session responses", "session_id", sessionID)

	responses, err := h.responseService.GetSessionResponses(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session responses retrieved",
		Data:    responses,
	})
}
