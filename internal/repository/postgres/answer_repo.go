package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий журнала ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Create сохраняет ответ пользователя в переданной транзакции
func (r *AnswerRepo) Create(tx *gorm.DB, answer *entity.Answer) error {
	return tx.Create(answer).Error
}

// GetByUserAndQuizIDs возвращает ответы пользователя на указанные вопросы
func (r *AnswerRepo) GetByUserAndQuizIDs(userID string, quizIDs []uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).
		Order("created_at").
		Find(&answers).Error
	return answers, err
}

// AggregateDailyStats группирует ответы в полуоткрытом окне [from, to) по пользователям.
// NULL в числовых полях считается нулем, пользователи без ответов не возвращаются.
func (r *AnswerRepo) AggregateDailyStats(from, to time.Time) ([]entity.DailyUserStat, error) {
	var stats []entity.DailyUserStat

	err := r.db.Model(&entity.Answer{}).
		Select(`user_id,
			COUNT(id) AS attempts,
			SUM(CASE WHEN is_correct THEN 1 ELSE 0 END) AS correct_answers,
			COALESCE(SUM(point), 0) AS points,
			COALESCE(SUM(bonus_point), 0) AS bonus_points`).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("user_id").
		Having("COUNT(id) > 0").
		Scan(&stats).Error
	return stats, err
}
