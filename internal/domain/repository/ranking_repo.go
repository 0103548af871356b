package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// RankingRepository определяет методы для работы с хранилищем рейтинговых очков.
// Запись идет только через батч-агрегатор, чтение - через сервис запросов.
type RankingRepository interface {
	// ReplaceDaily выполняет upsert дневной строки с семантикой замены:
	// повторный прогон за тот же день полностью перезаписывает значения.
	// Выполняется В ПЕРЕДАННОЙ ТРАНЗАКЦИИ.
	ReplaceDaily(tx *gorm.DB, period string, stat entity.DailyUserStat) error

	// Accumulate выполняет upsert недельной или месячной строки с накоплением:
	// существующие значения увеличиваются на дневные дельты.
	// Выполняется В ПЕРЕДАННОЙ ТРАНЗАКЦИИ.
	Accumulate(tx *gorm.DB, rankingType entity.RankingType, period string, stat entity.DailyUserStat) error

	// GetTop возвращает первые limit строк периода по убыванию счета
	// с предзагруженными пользователями и их бейджами.
	// Для дневного рейтинга равные счета дополнительно упорядочиваются
	// по убыванию числа правильных ответов.
	GetTop(rankingType entity.RankingType, period string, limit int) ([]entity.RankingScore, error)

	// GetUserScore возвращает строку пользователя за период или apperrors.ErrNotFound
	GetUserScore(rankingType entity.RankingType, period string, userID string) (*entity.RankingScore, error)

	// CountWithHigherScore возвращает число строк периода со счетом строго больше score
	CountWithHigherScore(rankingType entity.RankingType, period string, score int) (int64, error)
}
