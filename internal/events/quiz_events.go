package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// EventType represents the kinds of progress events emitted while learners answer questions
type EventType string

const (
	EventQuestionAttempted EventType = "question.attempted"
	EventQuestionCompleted EventType = "question.completed"
	EventQuestionExhausted EventType = "question.exhausted"
	EventSessionFinished   EventType = "session.finished"
)

const (
	eventSource  = "quiz-evaluation-service"
	eventVersion = "1.0"
)

// QuizEvent is the envelope written to the broker for every progress change
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// QuestionAttemptEvent is the payload of the question.* events.
type QuestionAttemptEvent struct {
	SessionID         string            `json:"session_id"`
	QuestionID        uint              `json:"question_id"`
	QuizID            uint              `json:"quiz_id"`
	LearnerID         string            `json:"learner_id,omitempty"`
	Correct           bool              `json:"correct"`
	AttemptsUsed      int               `json:"attempts_used"`
	RemainingAttempts int               `json:"remaining_attempts"`
	Score             *int              `json:"score,omitempty"`
	Verdicts          models.VerdictMap `json:"verdicts"`
	SubmittedAt       time.Time         `json:"submitted_at"`
}

// SessionFinishedEvent is emitted once every question of a quiz is locked for a session.
type SessionFinishedEvent struct {
	SessionID     string    `json:"session_id"`
	QuizID        uint      `json:"quiz_id"`
	EarnedScore   int       `json:"earned_score"`
	PossibleScore int       `json:"possible_score"`
	FinishedAt    time.Time `json:"finished_at"`
}

// NewQuizEvent wraps a payload into an envelope with a fresh id.
func NewQuizEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// QuestionEventType maps a recorded progress state onto the event announcing it.
func QuestionEventType(state models.ProgressState) EventType {
	switch state {
	case models.ProgressCompleted:
		return EventQuestionCompleted
	case models.ProgressExhausted:
		return EventQuestionExhausted
	default:
		return EventQuestionAttempted
	}
}
