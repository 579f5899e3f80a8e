package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/response-analytics-service/internal/errors"
	"github.com/SAP-F-2025/response-analytics-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator combines struct-tag validation with the ordered response-event
// domain checks.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateResponseEvent checks a candidate response event against the domain
// invariants before it may be stored. Checks run in a fixed order and stop at
// the first failure; the returned error names the offending field and rule.
func (v *Validator) ValidateResponseEvent(event *models.ResponseEvent) *apperrors.ValidationError {
	if event.AnswerIndex < 0 {
		return apperrors.NewValidationErrorWithRule("answer_index", "must be at least 0", "min", event.AnswerIndex)
	}
	if event.ResponseTimeMs < 0 {
		return apperrors.NewValidationErrorWithRule("response_time_ms", "must be at least 0", "min", event.ResponseTimeMs)
	}
	if event.Difficulty < 0 || event.Difficulty > 1 {
		return apperrors.NewValidationErrorWithRule("difficulty", "must be between 0 and 1", "unit_interval", event.Difficulty)
	}
	if event.StudentAbility < 0 || event.StudentAbility > 1 {
		return apperrors.NewValidationErrorWithRule("student_ability", "must be between 0 and 1", "unit_interval", event.StudentAbility)
	}
	if strings.TrimSpace(event.Topic) == "" {
		return apperrors.NewValidationErrorWithRule("topic", "must be a non-blank topic label", "topic_label", event.Topic)
	}
	if event.SessionID == "" {
		return apperrors.NewValidationErrorWithRule("session_id", "is required", "required", event.SessionID)
	}
	if event.QuestionID == "" {
		return apperrors.NewValidationErrorWithRule("question_id", "is required", "required", event.QuestionID)
	}
	if event.QuestionNumber < 1 {
		return apperrors.NewValidationErrorWithRule("question_number", "must be at least 1", "min", event.QuestionNumber)
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("unit_interval", validateUnitInterval)
	validate.RegisterValidation("topic_label", validateTopicLabel)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateUnitInterval(fl validator.FieldLevel) bool {
	value := fl.Field().Float()
	return value >= 0 && value <= 1
}

func validateTopicLabel(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
