package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с вопросами викторины
type QuizRepository interface {
	GetByID(id uint) (*entity.Quiz, error)
	// Update сохраняет обновленную статистику вопроса В ПЕРЕДАННОЙ ТРАНЗАКЦИИ
	Update(tx *gorm.DB, quiz *entity.Quiz) error
}
