package entity

import (
	"time"
)

// Answer представляет одну попытку ответа на вопрос.
// Журнал ответов append-only: движок рейтинга только читает его.
type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     string `gorm:"size:64;not null;index" json:"user_id"`
	QuizID     uint   `gorm:"not null;index" json:"quiz_id"`
	CategoryID uint   `gorm:"not null" json:"category_id"`
	UserAnswer string `gorm:"size:255;not null" json:"user_answer"`
	IsCorrect  bool   `gorm:"not null" json:"is_correct"`
	Point      int    `gorm:"not null;default:0" json:"point"`
	BonusPoint int    `gorm:"not null;default:0" json:"bonus_point"`
	TimeTaken  *int   `json:"time_taken,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamptz;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz" json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}
