package models

import (
	"time"

	"gorm.io/datatypes"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

// ResponseEvent is one recorded answer to one question within an assessment
// session. Events are immutable once stored; performance score, difficulty
// level and response time in seconds are derived on read, never persisted.
type ResponseEvent struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	SessionID  string `json:"session_id" gorm:"not null;size:64;index" validate:"required"`
	QuestionID string `json:"question_id" gorm:"not null;size:64;index" validate:"required"`

	AnswerIndex    int       `json:"answer_index" gorm:"not null" validate:"min=0"`
	Correct        bool      `json:"correct" gorm:"not null;index"`
	ResponseTimeMs int       `json:"response_time_ms" gorm:"not null" validate:"min=0"`
	Timestamp      time.Time `json:"timestamp" gorm:"not null;index"`
	QuestionNumber int       `json:"question_number" gorm:"not null" validate:"min=1"`

	Difficulty     float64 `json:"difficulty" gorm:"not null" validate:"unit_interval"`
	Topic          string  `json:"topic" gorm:"not null;size:200;index" validate:"topic_label"`
	StudentAbility float64 `json:"student_ability" gorm:"not null" validate:"unit_interval"`

	// Device, browser and similar auxiliary fields. Opaque to scoring.
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (ResponseEvent) TableName() string {
	return "response_events"
}

// ResponseWithDerived is a ResponseEvent annotated with the read-time derived
// values for API responses.
type ResponseWithDerived struct {
	ResponseEvent
	PerformanceScore    float64         `json:"performance_score"`
	DifficultyLevel     DifficultyLevel `json:"difficulty_level"`
	ResponseTimeSeconds float64         `json:"response_time_seconds"`
}
