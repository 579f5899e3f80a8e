package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the analytics events this service emits
type EventType string

const (
	EventResponseRecorded EventType = "response.recorded"
)

// AnalyticsEvent is the base event structure published to downstream
// consumers (dashboards, the ability updater). Consumers own any ability
// update rule; this service only reports what was recorded.
type AnalyticsEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ResponseRecordedEvent is the payload for a stored response. The score and
// difficulty level are the derived annotations at recording time; they are
// informational for consumers and are still recomputed on every read here.
type ResponseRecordedEvent struct {
	ResponseID       uint      `json:"response_id"`
	SessionID        string    `json:"session_id"`
	QuestionID       string    `json:"question_id"`
	QuestionNumber   int       `json:"question_number"`
	Topic            string    `json:"topic"`
	Correct          bool      `json:"correct"`
	ResponseTimeMs   int       `json:"response_time_ms"`
	Difficulty       float64   `json:"difficulty"`
	DifficultyLevel  string    `json:"difficulty_level"`
	PerformanceScore float64   `json:"performance_score"`
	StudentAbility   float64   `json:"student_ability"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// NewAnalyticsEvent creates an event envelope with this service as source.
func NewAnalyticsEvent(eventType EventType, data interface{}) *AnalyticsEvent {
	return &AnalyticsEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "response-analytics-service",
		Version:   "1.0",
		Data:      data,
	}
}
