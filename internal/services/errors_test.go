package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrQuestionNotFound)))
	assert.True(t, IsNotFound(ErrQuizNotFound))
	assert.False(t, IsNotFound(errors.New("boom")))

	assert.True(t, IsConflict(ErrQuestionLocked))
	assert.True(t, IsValidation(ValidationErrors{{Field: "title", Message: "too long"}}))
	assert.True(t, IsValidation(NewValidationError("title", "too long", nil)))
	assert.True(t, IsBusinessRule(NewBusinessRuleError(RuleUnansweredComponents, "blank", nil)))
	assert.True(t, IsUnauthorized(NewPermissionError("u", 1, "question", "delete", "not the author")))
}

func TestFormatError(t *testing.T) {
	assert.Nil(t, FormatError(nil))

	formatted := FormatError(NewBusinessRuleError("r", "m", map[string]interface{}{"component_ids": []int{1}}))
	assert.Equal(t, "business_rule", formatted["type"])
	assert.Equal(t, "r", formatted["rule"])

	formatted = FormatError(fmt.Errorf("lookup: %w", ErrQuestionNotFound))
	assert.Equal(t, "not_found", formatted["type"])

	formatted = FormatError(ValidationErrors{{Field: "a", Message: "b"}})
	assert.Equal(t, "validation", formatted["type"])
	assert.Equal(t, 1, formatted["count"])
}

func TestServiceLogger_LogOperationLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewServiceLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), "question")

	logger.LogOperation(context.Background(), "submit_answer", "u-1", 4, "question", time.Millisecond, ErrQuestionLocked)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=conflict")
	assert.Contains(t, buf.String(), "user_id=u-1")

	buf.Reset()
	logger.LogOperation(context.Background(), "create_question", "", 4, "question", time.Millisecond, errors.New("db down"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.NotContains(t, buf.String(), "user_id")

	quiet := NewServiceLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), "question")
	quiet.WithOperation(context.Background(), "noop", "").LogResult(0, "question", nil)
}
