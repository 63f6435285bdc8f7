package evaluation

import (
	"strings"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// IsRequiredAndUnanswered reports whether the component must be answered before
// the question can be submitted and has no usable answer yet. Only true/false,
// single choice, short text and matching pairs are required; the remaining types
// have natural defaults.
func IsRequiredAndUnanswered(questionID uint, c *models.Component, answers models.AnswerSheet) bool {
	if c == nil {
		return false
	}
	value, _ := answers.Lookup(questionID, c.ID)

	switch c.Type {
	case models.ComponentTrueFalse, models.ComponentMultipleChoiceSingle:
		return value == nil
	case models.ComponentShortTextAnswer:
		s, ok := value.(string)
		return !ok || strings.TrimSpace(s) == ""
	case models.ComponentMatchingPairs:
		entries, ok := asSlice(value)
		if !ok || len(entries) == 0 {
			return true
		}
		matched := 0
		for _, entry := range entries {
			_, right := pairSides(entry)
			if right == nil {
				continue
			}
			if s, ok := right.(string); ok && s == "" {
				continue
			}
			matched++
		}
		return matched < len(c.Pairs)
	default:
		return false
	}
}

// UnansweredComponents returns the ids of the components blocking submission of q.
func UnansweredComponents(q *models.Question, answers models.AnswerSheet) []int {
	if q == nil {
		return nil
	}
	var ids []int
	for i := range q.Components {
		if IsRequiredAndUnanswered(q.ID, &q.Components[i], answers) {
			ids = append(ids, q.Components[i].ID)
		}
	}
	return ids
}
