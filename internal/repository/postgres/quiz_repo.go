package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий вопросов
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// GetByID возвращает вопрос по идентификатору
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// Update сохраняет обновленную статистику вопроса В ПЕРЕДАННОЙ ТРАНЗАКЦИИ
func (r *QuizRepo) Update(tx *gorm.DB, quiz *entity.Quiz) error {
	return tx.Save(quiz).Error
}
