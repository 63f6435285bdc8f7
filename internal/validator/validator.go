package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/go-playground/validator/v10"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Validator is the main validator instance that combines struct tags with question content rules
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and, for questions, the authored answer keys.
// Failures are returned as ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return ToValidationErrors(err)
	}

	if q, ok := s.(*models.Question); ok {
		if errs := v.questionValidator.ValidateQuestion(q); len(errs) > 0 {
			return errs
		}
	}

	return nil
}

// ValidateVar validates a single value against a tag, e.g. a path parameter.
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.structValidator.Var(field, tag)
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("component_type", validateComponentType)
	validate.RegisterValidation("session_id", validateSessionID)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateComponentType(fl validator.FieldLevel) bool {
	return evaluation.IsKnownType(models.ComponentType(fl.Field().String()))
}

func validateSessionID(fl validator.FieldLevel) bool {
	return sessionIDPattern.MatchString(fl.Field().String())
}
