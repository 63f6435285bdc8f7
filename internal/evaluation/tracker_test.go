package evaluation

import (
	"testing"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSubmission_ExhaustsAttempts(t *testing.T) {
	q := &models.Question{ID: 1, Points: 10, MaxAttempts: 3}
	p := NewProgress("session-1", q)
	assert.Equal(t, models.ProgressFresh, p.State())

	want := []models.ProgressState{models.ProgressInProgress, models.ProgressInProgress, models.ProgressExhausted}
	for i, state := range want {
		var err error
		p, err = RecordSubmission(p, q.Points, false)
		require.NoError(t, err)
		assert.Equal(t, i+1, p.AttemptsUsed)
		assert.Equal(t, state, p.State())
	}
	assert.True(t, p.Locked)
	assert.Nil(t, p.Score)
	assert.Equal(t, 0, p.RemainingAttempts())

	after, err := RecordSubmission(p, q.Points, true)
	assert.ErrorIs(t, err, ErrQuestionLocked)
	assert.Equal(t, p, after)
	assert.Equal(t, 3, after.AttemptsUsed)
}

func TestRecordSubmission_CompletesOnFirstCorrect(t *testing.T) {
	q := &models.Question{ID: 1, Points: 4, MaxAttempts: 3}
	p := NewProgress("session-1", q)

	p, err := RecordSubmission(p, q.Points, false)
	require.NoError(t, err)
	assert.Equal(t, 2, p.RemainingAttempts())

	p, err = RecordSubmission(p, q.Points, true)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressCompleted, p.State())
	require.NotNil(t, p.Score)
	assert.Equal(t, 4, *p.Score)
	assert.True(t, p.Locked)

	_, err = RecordSubmission(p, q.Points, true)
	assert.ErrorIs(t, err, ErrQuestionLocked)
	assert.Equal(t, 4, *p.Score)
}

func TestRecordSubmission_CorrectOnLastAttemptCompletes(t *testing.T) {
	q := &models.Question{ID: 1, Points: 2, MaxAttempts: 1}
	p, err := RecordSubmission(NewProgress("s", q), q.Points, true)
	require.NoError(t, err)
	assert.Equal(t, models.ProgressCompleted, p.State())
}

func TestNewProgress_ClampsMaxAttempts(t *testing.T) {
	p := NewProgress("s", &models.Question{ID: 3, MaxAttempts: 0})
	assert.Equal(t, 1, p.MaxAttempts)
	assert.Equal(t, uint(3), p.QuestionID)
	assert.Equal(t, "s", p.SessionID)
}

func TestTotalPossibleScore(t *testing.T) {
	questions := []*models.Question{{Points: 3}, {Points: 5}, nil, {Points: 0}}
	assert.Equal(t, 8, TotalPossibleScore(questions))
	assert.Equal(t, 0, TotalPossibleScore(nil))
}

func TestSummarize(t *testing.T) {
	score := 5
	questions := []*models.Question{
		{ID: 1, Points: 5, MaxAttempts: 2},
		{ID: 2, Points: 3, MaxAttempts: 2},
		{ID: 3, Points: 2, MaxAttempts: 2},
		{ID: 4, Points: 1, MaxAttempts: 2},
	}
	progress := map[uint]*models.QuestionProgress{
		1: {QuestionID: 1, AttemptsUsed: 1, MaxAttempts: 2, Score: &score},
		2: {QuestionID: 2, AttemptsUsed: 2, MaxAttempts: 2},
		3: {QuestionID: 3, AttemptsUsed: 1, MaxAttempts: 2},
	}

	summary := Summarize(9, "s", questions, progress)
	assert.Equal(t, models.SessionSummary{
		QuizID:          9,
		SessionID:       "s",
		QuestionCount:   4,
		EarnedScore:     5,
		PossibleScore:   11,
		CompletedCount:  1,
		ExhaustedCount:  1,
		InProgressCount: 1,
		FreshCount:      1,
		Finished:        false,
	}, summary)

	progress[3].AttemptsUsed = 2
	progress[4] = &models.QuestionProgress{QuestionID: 4, AttemptsUsed: 2, MaxAttempts: 2}
	assert.True(t, Summarize(9, "s", questions, progress).Finished)
}
