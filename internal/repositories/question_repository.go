package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// QuestionRepository interface for question-specific operations
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int64, error)
	// ListByQuiz returns every question of a quiz in presentation order.
	ListByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
}
