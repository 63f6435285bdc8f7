package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/models"
	"github.com/SAP-F-2025/quiz-evaluation-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p ProgressPostgreSQL) Get(ctx context.Context, sessionID string, questionID uint) (*models.QuestionProgress, error) {
	var progress models.QuestionProgress
	if err := p.db.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p ProgressPostgreSQL) GetForUpdate(ctx context.Context, sessionID string, questionID uint) (*models.QuestionProgress, error) {
	var progress models.QuestionProgress
	if err := p.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

var progressKey = []clause.Column{{Name: "session_id"}, {Name: "question_id"}}

func (p ProgressPostgreSQL) CreateIfAbsent(ctx context.Context, progress *models.QuestionProgress) error {
	return insertIfAbsent(p.db.WithContext(ctx), progress).Error
}

func (p ProgressPostgreSQL) Save(ctx context.Context, progress *models.QuestionProgress) error {
	result := updateUnlocked(p.db.WithContext(ctx), progress)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrProgressLocked
	}
	return nil
}

func insertIfAbsent(db *gorm.DB, progress *models.QuestionProgress) *gorm.DB {
	return db.Clauses(clause.OnConflict{Columns: progressKey, DoNothing: true}).Create(progress)
}

// updateUnlocked never touches a locked row, so a completed or exhausted
// question keeps its score.
func updateUnlocked(db *gorm.DB, progress *models.QuestionProgress) *gorm.DB {
	return db.Model(&models.QuestionProgress{}).
		Where("session_id = ? AND question_id = ? AND locked = ?", progress.SessionID, progress.QuestionID, false).
		Updates(map[string]interface{}{
			"attempts_used": progress.AttemptsUsed,
			"max_attempts":  progress.MaxAttempts,
			"score":         progress.Score,
			"locked":        progress.Locked,
			"last_verdicts": progress.LastVerdicts,
			"learner_id":    progress.LearnerID,
			"updated_at":    time.Now(),
		})
}

func (p ProgressPostgreSQL) ListBySession(ctx context.Context, sessionID string) ([]*models.QuestionProgress, error) {
	var progress []*models.QuestionProgress
	if err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_id ASC").
		Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (p ProgressPostgreSQL) ListBySessionAndQuestions(ctx context.Context, sessionID string, questionIDs []uint) ([]*models.QuestionProgress, error) {
	var progress []*models.QuestionProgress
	if len(questionIDs) == 0 {
		return progress, nil
	}
	if err := p.db.WithContext(ctx).
		Where("session_id = ? AND question_id IN ?", sessionID, questionIDs).
		Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (p ProgressPostgreSQL) DeleteByQuestion(ctx context.Context, questionID uint) error {
	return p.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Delete(&models.QuestionProgress{}).Error
}
