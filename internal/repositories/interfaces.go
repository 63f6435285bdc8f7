package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	QuizID    *uint  `json:"quiz_id"`
	CreatedBy string `json:"created_by"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "order", "created_at", "title"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// Repository groups the repositories backed by one database handle.
type Repository interface {
	Question() QuestionRepository
	Progress() ProgressRepository

	// WithTransaction runs fn against repositories bound to a single transaction.
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
}

// ErrProgressLocked is returned by ProgressRepository.Save when no unlocked row
// matches the progress key.
var ErrProgressLocked = errors.New("progress is missing or already locked")

// IsNotFoundError reports whether err means the requested row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
