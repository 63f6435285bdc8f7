package validator

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/evaluation"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// QuestionValidator checks that each component's answer key has the shape its type expects.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates every component of a question and collects all problems.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) ValidationErrors {
	var errs ValidationErrors
	if q == nil {
		return append(errs, ValidationError{Field: "question", Message: "is required"})
	}

	seen := make(map[int]bool, len(q.Components))
	for i := range q.Components {
		c := &q.Components[i]
		if seen[c.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("components[%d].id", i),
				Message: fmt.Sprintf("duplicate component id %d", c.ID),
				Value:   c.ID,
			})
		}
		seen[c.ID] = true
		errs = append(errs, v.ValidateComponent(i, c)...)
	}
	return errs
}

// ValidateComponent validates one component's answer key.
func (v *QuestionValidator) ValidateComponent(index int, c *models.Component) ValidationErrors {
	var errs ValidationErrors
	fail := func(field, message string, value interface{}) {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("components[%d].%s", index, field),
			Message: message,
			Value:   value,
		})
	}

	if !evaluation.IsKnownType(c.Type) {
		fail("type", "unknown component type", c.Type)
		return errs
	}

	switch c.Type {
	case models.ComponentTrueFalse:
		if !isFlag(c.Value) {
			fail("value", "must be true or false", c.Value)
		}
	case models.ComponentMultipleChoiceSingle:
		idx, ok := indexValue(c.CorrectIndex)
		if !ok {
			fail("correctIndex", "must be an option index", c.CorrectIndex)
		} else if len(c.Options) > 0 && idx >= len(c.Options) {
			fail("correctIndex", fmt.Sprintf("must be less than %d", len(c.Options)), c.CorrectIndex)
		}
	case models.ComponentMultipleChoiceMulti:
		items, ok := sliceValue(c.CorrectAnswers)
		if !ok || len(items) == 0 {
			fail("correctAnswers", "must list at least one option index", c.CorrectAnswers)
			break
		}
		for _, item := range items {
			if idx, ok := indexValue(item); !ok || (len(c.Options) > 0 && idx >= len(c.Options)) {
				fail("correctAnswers", "must contain option indices only", item)
				break
			}
		}
	case models.ComponentShortTextAnswer:
		if s, ok := c.CorrectAnswer.(string); !ok || strings.TrimSpace(s) == "" {
			fail("correctAnswer", "must be a non-empty string", c.CorrectAnswer)
		}
	case models.ComponentSingleCheckbox:
		if !isFlag(c.CorrectValue) {
			fail("correctValue", "must be true or false", c.CorrectValue)
		}
	case models.ComponentToggleButton:
		if !isFlag(c.Toggled) {
			fail("toggled", "must be true or false", c.Toggled)
		}
	case models.ComponentNumericSlider:
		if c.TargetValue != nil {
			if _, ok := numberValue(c.TargetValue); !ok {
				fail("targetValue", "must be a number", c.TargetValue)
			}
			break
		}
		lo, okLo := numberValue(c.MinValue)
		hi, okHi := numberValue(c.MaxValue)
		if !okLo || !okHi {
			fail("minValue", "targetValue or both minValue and maxValue are required", nil)
		} else if lo > hi {
			fail("minValue", "must not exceed maxValue", c.MinValue)
		}
	case models.ComponentDiscreteSlider:
		if _, ok := numberValue(c.SelectedIndex); !ok {
			fail("selectedIndex", "must be a number", c.SelectedIndex)
		} else if _, isString := c.SelectedIndex.(string); isString {
			fail("selectedIndex", "must be a number, not a string", c.SelectedIndex)
		}
	case models.ComponentRanking:
		if len(c.Items) < 2 {
			fail("items", "must have at least 2 items", len(c.Items))
		}
		order, ok := sliceValue(c.CorrectOrder)
		if !ok {
			fail("correctOrder", "must be a list of item indices", c.CorrectOrder)
			break
		}
		used := make(map[int]bool, len(order))
		for _, item := range order {
			idx, ok := indexValue(item)
			if !ok || idx >= len(c.Items) {
				fail("correctOrder", "references a non-existent item", item)
				break
			}
			if used[idx] {
				fail("correctOrder", "contains a duplicate item", item)
				break
			}
			used[idx] = true
		}
	case models.ComponentMatchingPairs:
		if len(c.Pairs) < 2 {
			fail("pairs", "must have at least 2 pairs", len(c.Pairs))
		}
		for i, p := range c.Pairs {
			if p.Left == nil || p.Right == nil {
				fail(fmt.Sprintf("pairs[%d]", i), "must have both left and right labels", nil)
			}
		}
	case models.ComponentCustom:
		ids := make(map[string]bool, len(c.SubItems))
		for i, sub := range c.SubItems {
			key := sub.Key()
			if key == "" {
				fail(fmt.Sprintf("subItems[%d].id", i), "is required", nil)
				continue
			}
			if ids[key] {
				fail(fmt.Sprintf("subItems[%d].id", i), "duplicate sub-item id", sub.ID)
			}
			ids[key] = true
			if sub.Type == models.SubItemCheckbox && sub.Value != nil && !isFlag(sub.Value) {
				fail(fmt.Sprintf("subItems[%d].value", i), "must be true or false", sub.Value)
			}
		}
	}

	return errs
}

func isFlag(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return true
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "false"
	}
	return false
}

func numberValue(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}

func indexValue(v interface{}) (int, bool) {
	f, ok := numberValue(v)
	if !ok || f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func sliceValue(v interface{}) ([]interface{}, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
