package evaluation

import (
	"testing"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsRequiredAndUnanswered_ShortText(t *testing.T) {
	c := &models.Component{ID: 3, Type: models.ComponentShortTextAnswer, CorrectAnswer: "Paris"}

	assert.True(t, IsRequiredAndUnanswered(1, c, models.AnswerSheet{}))
	assert.True(t, IsRequiredAndUnanswered(1, c, models.AnswerSheet{1: {3: "   "}}))
	assert.True(t, IsRequiredAndUnanswered(1, c, models.AnswerSheet{1: {3: 12}}))
	assert.False(t, IsRequiredAndUnanswered(1, c, models.AnswerSheet{1: {3: " x "}}))
	// Answers for a different question do not count.
	assert.True(t, IsRequiredAndUnanswered(1, c, models.AnswerSheet{2: {3: "Paris"}}))
}

func TestIsRequiredAndUnanswered_ChoiceTypes(t *testing.T) {
	for _, typ := range []models.ComponentType{models.ComponentTrueFalse, models.ComponentMultipleChoiceSingle} {
		c := &models.Component{ID: 1, Type: typ}
		assert.True(t, IsRequiredAndUnanswered(9, c, nil), typ)
		assert.True(t, IsRequiredAndUnanswered(9, c, models.AnswerSheet{9: {1: nil}}), typ)
		assert.False(t, IsRequiredAndUnanswered(9, c, models.AnswerSheet{9: {1: false}}), typ)
		assert.False(t, IsRequiredAndUnanswered(9, c, models.AnswerSheet{9: {1: 0}}), typ)
	}
}

func TestIsRequiredAndUnanswered_MatchingPairs(t *testing.T) {
	c := &models.Component{ID: 4, Type: models.ComponentMatchingPairs, Pairs: make([]models.MatchPair, 2)}

	cases := []struct {
		name      string
		submitted any
		want      bool
	}{
		{"missing", nil, true},
		{"not an array", "0-0", true},
		{"empty", []any{}, true},
		{"one right side blank", []any{
			map[string]any{"left": float64(0), "right": float64(0)},
			map[string]any{"left": float64(1), "right": ""},
		}, true},
		{"one right side missing", []models.MatchPair{{Left: 0, Right: 0}, {Left: 1}}, true},
		{"all matched", []models.MatchPair{{Left: 0, Right: 1}, {Left: 1, Right: 0}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sheet := models.AnswerSheet{5: {4: tc.submitted}}
			assert.Equal(t, tc.want, IsRequiredAndUnanswered(5, c, sheet))
		})
	}
}

func TestIsRequiredAndUnanswered_OptionalTypes(t *testing.T) {
	for _, typ := range []models.ComponentType{
		models.ComponentMultipleChoiceMulti,
		models.ComponentNumericSlider,
		models.ComponentDiscreteSlider,
		models.ComponentRanking,
		models.ComponentSingleCheckbox,
		models.ComponentToggleButton,
		models.ComponentCustom,
		models.ComponentShape,
		models.ComponentText,
	} {
		c := &models.Component{ID: 1, Type: typ}
		assert.False(t, IsRequiredAndUnanswered(1, c, models.AnswerSheet{}), typ)
	}
	assert.False(t, IsRequiredAndUnanswered(1, nil, nil))
}

func TestUnansweredComponents(t *testing.T) {
	q := &models.Question{
		ID: 2,
		Components: models.Components{
			{ID: 1, Type: models.ComponentText},
			{ID: 2, Type: models.ComponentTrueFalse, Value: true},
			{ID: 3, Type: models.ComponentShortTextAnswer},
			{ID: 4, Type: models.ComponentNumericSlider},
		},
	}

	assert.Equal(t, []int{2, 3}, UnansweredComponents(q, models.AnswerSheet{}))
	assert.Equal(t, []int{3}, UnansweredComponents(q, models.AnswerSheet{2: {2: true, 3: ""}}))
	assert.Empty(t, UnansweredComponents(q, models.AnswerSheet{2: {2: true, 3: "done"}}))
	assert.Nil(t, UnansweredComponents(nil, nil))
}
