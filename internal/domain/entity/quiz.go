package entity

import (
	"time"
)

// Quiz представляет вопрос викторины.
// Здесь только поля, нужные приему ответов; управление контентом - внешняя забота.
type Quiz struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CategoryID   uint   `gorm:"not null;index" json:"category_id"`
	Question     string `gorm:"type:text;not null" json:"question"`
	Correct      string `gorm:"size:255;not null" json:"-"`
	CorrectCount int    `gorm:"not null;default:0" json:"correct_count"`
	WrongCount   int    `gorm:"not null;default:0" json:"wrong_count"`
	Difficulty   string `gorm:"size:1;not null;default:'A'" json:"difficulty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// ApplyAnswer обновляет статистику вопроса и пересчитывает сложность
// по доле правильных ответов: <=30% - A, <=60% - B, <=90% - C, иначе D.
func (q *Quiz) ApplyAnswer(isCorrect bool) {
	if isCorrect {
		q.CorrectCount++
	} else {
		q.WrongCount++
	}

	total := q.CorrectCount + q.WrongCount
	if total == 0 {
		return
	}
	accuracy := float64(q.CorrectCount) / float64(total) * 100

	switch {
	case accuracy <= 30:
		q.Difficulty = "A"
	case accuracy <= 60:
		q.Difficulty = "B"
	case accuracy <= 90:
		q.Difficulty = "C"
	default:
		q.Difficulty = "D"
	}
}
