package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// AnswerRepository определяет методы для работы с журналом ответов
type AnswerRepository interface {
	// Create сохраняет ответ В ПЕРЕДАННОЙ ТРАНЗАКЦИИ
	Create(tx *gorm.DB, answer *entity.Answer) error
	GetByUserAndQuizIDs(userID string, quizIDs []uint) ([]entity.Answer, error)
	// AggregateDailyStats группирует ответы в полуоткрытом окне [from, to) (UTC)
	// по пользователям. Пользователи без ответов в окне не возвращаются.
	AggregateDailyStats(from, to time.Time) ([]entity.DailyUserStat, error)
}
