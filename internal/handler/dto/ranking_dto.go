package dto

import (
	"fmt"
	"time"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// BadgeDTO представляет бейдж в ответе API
type BadgeDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Grade       string `json:"grade"`
}

// UserSummaryDTO представляет краткую карточку пользователя в лидерборде
type UserSummaryDTO struct {
	ID               string     `json:"id"`
	NickName         string     `json:"nick_name"`
	Picture          string     `json:"picture"`
	EquippedBadges   []BadgeDTO `json:"equipped_badges"`
	EquippedBadgeIDs []int64    `json:"equipped_badge_ids"`
}

// RankingEntryDTO представляет одну строку лидерборда.
// Rank == nil означает "нет активности за период" - это валидное состояние, не ошибка.
type RankingEntryDTO struct {
	Rank           *int           `json:"rank"`
	User           UserSummaryDTO `json:"user"`
	Score          int            `json:"score"`
	TotalAttempts  int            `json:"total_attempts"`
	CorrectAnswers int            `json:"correct_answers"`
	Accuracy       int            `json:"accuracy"`
}

// PeriodDTO описывает период, к которому относится ответ
type PeriodDTO struct {
	Type        string `json:"type"` // daily | weekly | monthly
	Value       string `json:"value"`
	DisplayName string `json:"display_name"`
	Year        int    `json:"year"`
	Month       int    `json:"month,omitempty"`
	Day         int    `json:"day,omitempty"`
	Week        int    `json:"week,omitempty"`
}

// RankingListResponse - ответ на запрос топа лидерборда
type RankingListResponse struct {
	Success bool              `json:"success"`
	Data    []RankingEntryDTO `json:"data"`
	Period  PeriodDTO         `json:"period"`
}

// MyRankingResponse - ответ на запрос собственной позиции
type MyRankingResponse struct {
	Success bool            `json:"success"`
	Data    RankingEntryDTO `json:"data"`
	Period  *PeriodDTO      `json:"period,omitempty"`
}

// NewUserSummaryDTO собирает карточку пользователя с надетыми бейджами
func NewUserSummaryDTO(user *entity.User) UserSummaryDTO {
	if user == nil {
		return UserSummaryDTO{
			EquippedBadges:   []BadgeDTO{},
			EquippedBadgeIDs: []int64{},
		}
	}

	equipped := user.EquippedBadges()
	badges := make([]BadgeDTO, len(equipped))
	for i, b := range equipped {
		badges[i] = BadgeDTO{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			ImageURL:    b.ImageURL,
			Grade:       b.Grade,
		}
	}

	ids := user.EquippedBadgeIDs
	if ids == nil {
		ids = []int64{}
	}

	return UserSummaryDTO{
		ID:               user.ID,
		NickName:         user.NickName,
		Picture:          user.Picture,
		EquippedBadges:   badges,
		EquippedBadgeIDs: ids,
	}
}

// NewRankingEntryDTO преобразует строку хранилища в строку ответа
func NewRankingEntryDTO(rank *int, score *entity.RankingScore) RankingEntryDTO {
	return RankingEntryDTO{
		Rank:           rank,
		User:           NewUserSummaryDTO(score.User),
		Score:          score.Score,
		TotalAttempts:  score.TotalAttempts,
		CorrectAnswers: score.CorrectAnswers,
		Accuracy:       score.Accuracy(),
	}
}

// EmptyRankingEntryDTO возвращает нулевую строку для пользователя без активности
func EmptyRankingEntryDTO(userID string) RankingEntryDTO {
	return RankingEntryDTO{
		Rank: nil,
		User: UserSummaryDTO{
			ID:               userID,
			EquippedBadges:   []BadgeDTO{},
			EquippedBadgeIDs: []int64{},
		},
		Score:          0,
		TotalAttempts:  0,
		CorrectAnswers: 0,
		Accuracy:       0,
	}
}

// NewDailyPeriodDTO строит описание дневного периода из ключа YYYY-MM-DD
func NewDailyPeriodDTO(key string) PeriodDTO {
	t, _ := time.Parse("2006-01-02", key)
	return PeriodDTO{
		Type:        "daily",
		Value:       key,
		DisplayName: t.Format("January 2, 2006"),
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
	}
}

// NewWeeklyPeriodDTO строит описание недельного периода
func NewWeeklyPeriodDTO(key string, isoYear, isoWeek int) PeriodDTO {
	return PeriodDTO{
		Type:        "weekly",
		Value:       key,
		DisplayName: fmt.Sprintf("Week %d, %d", isoWeek, isoYear),
		Year:        isoYear,
		Week:        isoWeek,
	}
}

// NewMonthlyPeriodDTO строит описание месячного периода
func NewMonthlyPeriodDTO(key string, year, month int) PeriodDTO {
	return PeriodDTO{
		Type:        "monthly",
		Value:       key,
		DisplayName: fmt.Sprintf("%s %d", time.Month(month).String(), year),
		Year:        year,
		Month:       month,
	}
}
