package models

// QuestionAnswers holds a learner's in-progress input for one question, keyed by
// component id. Values keep the shape the answer-collection surface produced:
// booleans, indices, index arrays, strings, {left,right} arrays, or a map keyed by
// sub-item id for custom components.
type QuestionAnswers map[int]any

// AnswerSheet holds answers for every question of a session, keyed by question id.
type AnswerSheet map[uint]QuestionAnswers

// Lookup returns the submitted value for a component, if any.
func (s AnswerSheet) Lookup(questionID uint, componentID int) (any, bool) {
	answers, ok := s[questionID]
	if !ok || answers == nil {
		return nil, false
	}
	v, ok := answers[componentID]
	return v, ok
}
