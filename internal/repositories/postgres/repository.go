package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-evaluation-service/internal/repositories"
)

type repository struct {
	db       *gorm.DB
	question repositories.QuestionRepository
	progress repositories.ProgressRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:       db,
		question: NewQuestionPostgreSQL(db),
		progress: NewProgressPostgreSQL(db),
	}
}

func (r *repository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *repository) Progress() repositories.ProgressRepository {
	return r.progress
}

func (r *repository) WithTransaction(ctx context.Context, fn func(repo repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
