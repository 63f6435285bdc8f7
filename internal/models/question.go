package models

import (
	"time"

	"gorm.io/gorm"
)

// Question is one authored page of a quiz: a canvas of components worth a fixed
// number of points, answerable up to MaxAttempts times per learner session.
type Question struct {
	ID          uint       `json:"id" yaml:"id" gorm:"primaryKey"`
	QuizID      uint       `json:"quiz_id" yaml:"quiz_id" gorm:"not null;index"`
	Title       string     `json:"title" yaml:"title" gorm:"size:200" validate:"max=200"`
	Order       int        `json:"order" yaml:"order" gorm:"default:0"`
	Points      int        `json:"points" yaml:"points" gorm:"not null;default:1" validate:"min=0,max=1000"`
	MaxAttempts int        `json:"max_attempts" yaml:"max_attempts" gorm:"not null;default:1" validate:"min=1,max=100"`
	Components  Components `json:"components" yaml:"components" gorm:"type:jsonb" validate:"dive"`

	CreatedBy string         `json:"created_by,omitempty" yaml:"-" gorm:"size:100;index"`
	CreatedAt time.Time      `json:"created_at" yaml:"-"`
	UpdatedAt time.Time      `json:"updated_at" yaml:"-"`
	DeletedAt gorm.DeletedAt `json:"-" yaml:"-" gorm:"index"`
}

func (Question) TableName() string {
	return "questions"
}
