package services

import (
	"context"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// ===== REQUEST / RESPONSE TYPES =====

type CreateQuestionRequest struct {
	QuizID      uint              `json:"quiz_id" validate:"required"`
	Title       string            `json:"title" validate:"max=200"`
	Order       int               `json:"order" validate:"min=0"`
	Points      int               `json:"points" validate:"min=0,max=1000"`
	MaxAttempts int               `json:"max_attempts" validate:"omitempty,min=1,max=100"`
	Components  models.Components `json:"components" validate:"required,min=1"`
}

// UpdateQuestionRequest replaces only the fields that are present.
type UpdateQuestionRequest struct {
	Title       *string           `json:"title" validate:"omitempty,max=200"`
	Order       *int              `json:"order" validate:"omitempty,min=0"`
	Points      *int              `json:"points" validate:"omitempty,min=0,max=1000"`
	MaxAttempts *int              `json:"max_attempts" validate:"omitempty,min=1,max=100"`
	Components  models.Components `json:"components" validate:"omitempty,min=1"`
}

type QuestionListResponse struct {
	QuizID    uint               `json:"quiz_id"`
	Questions []*models.Question `json:"questions"`
	Total     int                `json:"total"`
	// TotalPoints is the highest score a session can earn on this quiz.
	TotalPoints int `json:"total_points"`
}

type EvaluationResponse struct {
	QuestionID uint              `json:"question_id"`
	Verdicts   models.VerdictMap `json:"verdicts"`
	Correct    bool              `json:"correct"`
}

type UnansweredResponse struct {
	QuestionID   uint  `json:"question_id"`
	ComponentIDs []int `json:"component_ids"`
	CanSubmit    bool  `json:"can_submit"`
}

type PresentationResponse struct {
	QuestionID uint `json:"question_id"`
	// Orders maps a ranking or matching_pairs component id to the display order of its items.
	Orders map[int][]int `json:"orders"`
}

type SubmitRequest struct {
	Answers models.QuestionAnswers `json:"answers"`
}

type ProgressResponse struct {
	*models.QuestionProgress
	State             models.ProgressState `json:"state"`
	RemainingAttempts int                  `json:"remaining_attempts"`
}

type SubmitResponse struct {
	Progress *ProgressResponse `json:"progress"`
	Verdicts models.VerdictMap `json:"verdicts"`
	Correct  bool              `json:"correct"`
}

// ===== SERVICE INTERFACES =====

type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest, userID string) (*models.Question, error)
	Get(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*models.Question, error)
	Delete(ctx context.Context, id uint, userID string) error
	ListByQuiz(ctx context.Context, quizID uint) (*QuestionListResponse, error)

	Evaluate(ctx context.Context, id uint, answers models.QuestionAnswers) (*EvaluationResponse, error)
	CheckUnanswered(ctx context.Context, id uint, answers models.QuestionAnswers) (*UnansweredResponse, error)
	Presentation(ctx context.Context, id uint) (*PresentationResponse, error)
}

type SessionService interface {
	Submit(ctx context.Context, sessionID string, questionID uint, req *SubmitRequest, learnerID string) (*SubmitResponse, error)
	GetProgress(ctx context.Context, sessionID string, questionID uint) (*ProgressResponse, error)
	ListProgress(ctx context.Context, sessionID string) ([]*ProgressResponse, error)
	Summary(ctx context.Context, quizID uint, sessionID string) (*models.SessionSummary, error)
}

type ExportService interface {
	// ExportSessionResults renders one row per question of the quiz as an XLSX workbook.
	ExportSessionResults(ctx context.Context, quizID uint, sessionID string) ([]byte, error)
}

func newProgressResponse(p *models.QuestionProgress) *ProgressResponse {
	return &ProgressResponse{
		QuestionProgress:  p,
		State:             p.State(),
		RemainingAttempts: p.RemainingAttempts(),
	}
}
