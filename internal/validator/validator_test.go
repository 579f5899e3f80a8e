package validator

import (
	"testing"
	"time"

	apperrors "github.com/SAP-F-2025/response-analytics-service/internal/errors"
	"github.com/SAP-F-2025/response-analytics-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *models.ResponseEvent {
	return &models.ResponseEvent{
		SessionID:      "sess-1",
		QuestionID:     "q-1",
		AnswerIndex:    2,
		Correct:        true,
		ResponseTimeMs: 4200,
		Timestamp:      time.Now(),
		QuestionNumber: 1,
		Difficulty:     0.5,
		Topic:          "Algebra",
		StudentAbility: 0.6,
	}
}

func TestValidateResponseEvent_Valid(t *testing.T) {
	v := New()
	assert.Nil(t, v.ValidateResponseEvent(validEvent()))
}

func TestValidateResponseEvent_FieldChecks(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(e *models.ResponseEvent)
		field   string
		rule    string
	}{
		{"negative answer index", func(e *models.ResponseEvent) { e.AnswerIndex = -1 }, "answer_index", "min"},
		{"negative response time", func(e *models.ResponseEvent) { e.ResponseTimeMs = -5 }, "response_time_ms", "min"},
		{"difficulty above range", func(e *models.ResponseEvent) { e.Difficulty = 1.2 }, "difficulty", "unit_interval"},
		{"difficulty below range", func(e *models.ResponseEvent) { e.Difficulty = -0.1 }, "difficulty", "unit_interval"},
		{"ability out of range", func(e *models.ResponseEvent) { e.StudentAbility = 1.01 }, "student_ability", "unit_interval"},
		{"blank topic", func(e *models.ResponseEvent) { e.Topic = "   " }, "topic", "topic_label"},
		{"missing session id", func(e *models.ResponseEvent) { e.SessionID = "" }, "session_id", "required"},
		{"missing question id", func(e *models.ResponseEvent) { e.QuestionID = "" }, "question_id", "required"},
		{"zero question number", func(e *models.ResponseEvent) { e.QuestionNumber = 0 }, "question_number", "min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := validEvent()
			tt.mutate(event)

			err := v.ValidateResponseEvent(event)
			require.NotNil(t, err)
			assert.Equal(t, tt.field, err.Field)
			assert.Equal(t, tt.rule, err.Rule)
		})
	}
}

func TestValidateResponseEvent_ShortCircuitOrder(t *testing.T) {
	v := New()

	// Multiple violations report only the first check in order.
	event := validEvent()
	event.AnswerIndex = -1
	event.Difficulty = 2
	event.Topic = ""

	err := v.ValidateResponseEvent(event)
	require.NotNil(t, err)
	assert.Equal(t, "answer_index", err.Field)
}

func TestValidateStruct_CustomTags(t *testing.T) {
	v := New()

	event := validEvent()
	event.Difficulty = 1.5
	event.Topic = "   "

	err := v.ValidateStruct(event)
	require.Error(t, err)

	errs := apperrors.ToValidationErrors(err)
	require.Len(t, errs, 2)

	assert.Equal(t, "difficulty", errs[0].Field)
	assert.Equal(t, "unit_interval", errs[0].Rule)
	assert.Equal(t, "must be between 0 and 1", errs[0].Message)

	assert.Equal(t, "topic", errs[1].Field)
	assert.Equal(t, "topic_label", errs[1].Rule)
}

func TestValidateResponseEvent_BoundaryValues(t *testing.T) {
	v := New()

	event := validEvent()
	event.AnswerIndex = 0
	event.ResponseTimeMs = 0
	event.Difficulty = 0
	event.StudentAbility = 1
	event.QuestionNumber = 1

	assert.Nil(t, v.ValidateResponseEvent(event))

	event.Difficulty = 1
	event.StudentAbility = 0
	assert.Nil(t, v.ValidateResponseEvent(event))
}
