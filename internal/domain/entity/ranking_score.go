package entity

import (
	"math"
	"time"
)

// RankingType определяет гранулярность рейтинга
type RankingType string

const (
	RankingDaily   RankingType = "DAILY"
	RankingWeekly  RankingType = "WEEKLY"
	RankingMonthly RankingType = "MONTHLY"
)

// RankingScore представляет накопленный счет пользователя за один период.
// На тройку (ranking_type, period, user_id) существует не более одной строки;
// единственный писатель - батч-агрегатор.
type RankingScore struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         string      `gorm:"size:64;not null;uniqueIndex:idx_ranking_type_period_user" json:"user_id"`
	User           *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RankingType    RankingType `gorm:"size:10;not null;uniqueIndex:idx_ranking_type_period_user" json:"ranking_type"`
	Period         string      `gorm:"size:10;not null;uniqueIndex:idx_ranking_type_period_user" json:"period"` // '2025-07-27', '2025-W30', '2025-07'
	Score          int         `gorm:"not null;default:0" json:"score"`
	TotalAttempts  int         `gorm:"not null;default:0" json:"total_attempts"`
	CorrectAnswers int         `gorm:"not null;default:0" json:"correct_answers"`

	CreatedAt time.Time `gorm:"type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz" json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (RankingScore) TableName() string {
	return "ranking_scores"
}

// Accuracy возвращает долю правильных ответов в процентах,
// округленную до ближайшего целого. Без попыток - 0.
func (r *RankingScore) Accuracy() int {
	if r.TotalAttempts <= 0 {
		return 0
	}
	return int(math.Round(float64(r.CorrectAnswers) / float64(r.TotalAttempts) * 100))
}

// DailyUserStat - агрегат ответов одного пользователя за один гражданский день.
// Существует только в рамках одного прогона агрегатора, не персистится.
type DailyUserStat struct {
	UserID         string `json:"user_id"`
	Attempts       int    `json:"attempts"`
	CorrectAnswers int    `json:"correct_answers"`
	Points         int    `json:"points"`
	BonusPoints    int    `json:"bonus_points"`
}

// Score возвращает суммарный дневной счет (очки + бонусные очки)
func (s DailyUserStat) Score() int {
	return s.Points + s.BonusPoints
}
