package postgres

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
)

// RankingRepo реализует repository.RankingRepository
type RankingRepo struct {
	db *gorm.DB
}

// NewRankingRepo создает новый репозиторий рейтинговых очков
func NewRankingRepo(db *gorm.DB) *RankingRepo {
	return &RankingRepo{db: db}
}

// ReplaceDaily выполняет upsert дневной строки с семантикой замены.
// Повторный прогон за тот же день перезаписывает значения, а не удваивает их.
// Выполняется в переданной транзакции.
func (r *RankingRepo) ReplaceDaily(tx *gorm.DB, period string, stat entity.DailyUserStat) error {
	sql := `
	INSERT INTO ranking_scores (user_id, ranking_type, period, score, total_attempts, correct_answers, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
	ON CONFLICT (ranking_type, period, user_id) DO UPDATE SET
	    score = EXCLUDED.score,
	    total_attempts = EXCLUDED.total_attempts,
	    correct_answers = EXCLUDED.correct_answers,
	    updated_at = NOW();`

	if err := tx.Exec(sql, stat.UserID, entity.RankingDaily, period,
		stat.Score(), stat.Attempts, stat.CorrectAnswers).Error; err != nil {
		log.Printf("[RankingRepo] Ошибка дневного upsert для user=%s period=%s: %v", stat.UserID, period, err)
		return err
	}
	return nil
}

// Accumulate выполняет upsert недельной или месячной строки с накоплением:
// существующая строка увеличивается на дневные дельты, отсутствующая создается.
func (r *RankingRepo) Accumulate(tx *gorm.DB, rankingType entity.RankingType, period string, stat entity.DailyUserStat) error {
	sql := `
	INSERT INTO ranking_scores (user_id, ranking_type, period, score, total_attempts, correct_answers, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
	ON CONFLICT (ranking_type, period, user_id) DO UPDATE SET
	    score = ranking_scores.score + EXCLUDED.score,
	    total_attempts = ranking_scores.total_attempts + EXCLUDED.total_attempts,
	    correct_answers = ranking_scores.correct_answers + EXCLUDED.correct_answers,
	    updated_at = NOW();`

	if err := tx.Exec(sql, stat.UserID, rankingType, period,
		stat.Score(), stat.Attempts, stat.CorrectAnswers).Error; err != nil {
		log.Printf("[RankingRepo] Ошибка накопительного upsert (%s) для user=%s period=%s: %v",
			rankingType, stat.UserID, period, err)
		return err
	}
	return nil
}

// GetTop возвращает первые limit строк периода по убыванию счета
// с предзагруженными пользователями и их бейджами
func (r *RankingRepo) GetTop(rankingType entity.RankingType, period string, limit int) ([]entity.RankingScore, error) {
	var scores []entity.RankingScore

	query := r.db.Where("ranking_type = ? AND period = ?", rankingType, period)

	// Для дневного рейтинга равный счет разрешается числом правильных ответов;
	// для недели и месяца вторичный порядок не определен
	if rankingType == entity.RankingDaily {
		query = query.Order("score DESC, correct_answers DESC")
	} else {
		query = query.Order("score DESC")
	}

	err := query.Limit(limit).
		Preload("User").
		Preload("User.UserBadges").
		Preload("User.UserBadges.Badge").
		Find(&scores).Error
	// Пустой слайс - валидный результат, ErrRecordNotFound здесь не проверяем
	return scores, err
}

// GetUserScore возвращает строку пользователя за период
func (r *RankingRepo) GetUserScore(rankingType entity.RankingType, period string, userID string) (*entity.RankingScore, error) {
	var score entity.RankingScore
	err := r.db.Where("ranking_type = ? AND period = ? AND user_id = ?", rankingType, period, userID).
		Preload("User").
		Preload("User.UserBadges").
		Preload("User.UserBadges.Badge").
		First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

// CountWithHigherScore возвращает число строк периода со счетом строго больше score
func (r *RankingRepo) CountWithHigherScore(rankingType entity.RankingType, period string, score int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.RankingScore{}).
		Where("ranking_type = ? AND period = ? AND score > ?", rankingType, period, score).
		Count(&count).Error
	return count, err
}
