package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProgressState string

const (
	ProgressFresh      ProgressState = "fresh"
	ProgressInProgress ProgressState = "in_progress"
	ProgressExhausted  ProgressState = "exhausted"
	ProgressCompleted  ProgressState = "completed"
)

// QuestionProgress tracks attempts and score for one question within one learner session.
type QuestionProgress struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	SessionID    string `json:"session_id" gorm:"not null;size:64;uniqueIndex:idx_progress_session_question"`
	QuestionID   uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_progress_session_question"`
	LearnerID    string `json:"learner_id,omitempty" gorm:"size:100;index"`
	AttemptsUsed int    `json:"attempts_used" gorm:"not null;default:0"`
	MaxAttempts  int    `json:"max_attempts" gorm:"not null"`
	Score        *int   `json:"score,omitempty"`
	Locked       bool   `json:"locked" gorm:"not null;default:false"`

	// Verdicts of the most recent submission, keyed by component id.
	LastVerdicts datatypes.JSON `json:"last_verdicts,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuestionProgress) TableName() string {
	return "question_progress"
}

// State derives the tracker state from the counters.
func (p *QuestionProgress) State() ProgressState {
	switch {
	case p.Score != nil:
		return ProgressCompleted
	case p.AttemptsUsed >= p.MaxAttempts:
		return ProgressExhausted
	case p.AttemptsUsed == 0:
		return ProgressFresh
	default:
		return ProgressInProgress
	}
}

// IsLocked reports whether no further submissions may be processed.
func (p *QuestionProgress) IsLocked() bool {
	return p.Score != nil || p.AttemptsUsed >= p.MaxAttempts
}

// RemainingAttempts never goes below zero.
func (p *QuestionProgress) RemainingAttempts() int {
	if p.IsLocked() {
		return 0
	}
	return p.MaxAttempts - p.AttemptsUsed
}

// SessionSummary aggregates progress across the questions of one quiz.
type SessionSummary struct {
	QuizID          uint   `json:"quiz_id"`
	SessionID       string `json:"session_id"`
	QuestionCount   int    `json:"question_count"`
	EarnedScore     int    `json:"earned_score"`
	PossibleScore   int    `json:"possible_score"`
	CompletedCount  int    `json:"completed_count"`
	ExhaustedCount  int    `json:"exhausted_count"`
	InProgressCount int    `json:"in_progress_count"`
	FreshCount      int    `json:"fresh_count"`
	Finished        bool   `json:"finished"`
}
