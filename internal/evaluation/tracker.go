package evaluation

import (
	"errors"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// ErrQuestionLocked is returned when a submission targets a completed or exhausted question.
var ErrQuestionLocked = errors.New("question is locked")

// NewProgress creates the record for a question first presented in a session.
func NewProgress(sessionID string, q *models.Question) models.QuestionProgress {
	maxAttempts := q.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return models.QuestionProgress{
		SessionID:   sessionID,
		QuestionID:  q.ID,
		MaxAttempts: maxAttempts,
	}
}

// RecordSubmission applies one submit action. The first correct submission locks in
// the question's points; otherwise the question is exhausted once attemptsUsed
// reaches maxAttempts. A locked progress is returned unchanged with ErrQuestionLocked.
func RecordSubmission(p models.QuestionProgress, points int, correct bool) (models.QuestionProgress, error) {
	if p.IsLocked() {
		return p, ErrQuestionLocked
	}

	p.AttemptsUsed++
	if correct {
		score := points
		p.Score = &score
	}
	p.Locked = p.IsLocked()
	return p, nil
}

// TotalPossibleScore sums the points of every question.
func TotalPossibleScore(questions []*models.Question) int {
	total := 0
	for _, q := range questions {
		if q != nil {
			total += q.Points
		}
	}
	return total
}

// Summarize aggregates a session's progress over the questions of one quiz.
// Questions without a progress record count as fresh.
func Summarize(quizID uint, sessionID string, questions []*models.Question, progress map[uint]*models.QuestionProgress) models.SessionSummary {
	summary := models.SessionSummary{
		QuizID:        quizID,
		SessionID:     sessionID,
		QuestionCount: len(questions),
		PossibleScore: TotalPossibleScore(questions),
	}

	for _, q := range questions {
		if q == nil {
			continue
		}
		p, ok := progress[q.ID]
		if !ok || p == nil {
			summary.FreshCount++
			continue
		}
		switch p.State() {
		case models.ProgressCompleted:
			summary.CompletedCount++
			summary.EarnedScore += *p.Score
		case models.ProgressExhausted:
			summary.ExhaustedCount++
		case models.ProgressInProgress:
			summary.InProgressCount++
		default:
			summary.FreshCount++
		}
	}

	summary.Finished = summary.QuestionCount > 0 &&
		summary.CompletedCount+summary.ExhaustedCount == summary.QuestionCount
	return summary
}
