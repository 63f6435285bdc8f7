package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
)

// ProgressRepository persists per-session attempt tracking.
type ProgressRepository interface {
	Get(ctx context.Context, sessionID string, questionID uint) (*models.QuestionProgress, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, sessionID string, questionID uint) (*models.QuestionProgress, error)
	// CreateIfAbsent inserts progress unless a row for its key already exists.
	CreateIfAbsent(ctx context.Context, progress *models.QuestionProgress) error
	// Save updates an unlocked row and returns ErrProgressLocked otherwise.
	Save(ctx context.Context, progress *models.QuestionProgress) error
	ListBySession(ctx context.Context, sessionID string) ([]*models.QuestionProgress, error)
	ListBySessionAndQuestions(ctx context.Context, sessionID string, questionIDs []uint) ([]*models.QuestionProgress, error)
	DeleteByQuestion(ctx context.Context, questionID uint) error
}
