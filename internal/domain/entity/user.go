package entity

import (
	"time"

	"github.com/lib/pq"
)

// Platform определяет провайдера федеративной аутентификации
type Platform string

const (
	PlatformGoogle Platform = "google"
	PlatformNaver  Platform = "naver"
	PlatformKakao  Platform = "kakao"
)

// User представляет пользователя в системе.
// ID - это идентификатор субъекта у провайдера (строка), пароль не хранится.
type User struct {
	ID                       string        `gorm:"primaryKey;size:64" json:"id"`
	Name                     string        `gorm:"size:100;not null" json:"name"`
	NickName                 string        `gorm:"size:50;not null" json:"nick_name"`
	Email                    string        `gorm:"size:100;not null;index" json:"email"`
	Platform                 Platform      `gorm:"size:20;not null" json:"platform"`
	Picture                  string        `gorm:"size:255;not null;default:''" json:"picture"`
	Introduction             string        `gorm:"size:500;not null;default:''" json:"introduction"`
	ProfileImage             string        `gorm:"size:255;not null;default:''" json:"profile_image"`
	FCMToken                 string        `gorm:"size:255;not null;default:''" json:"-"`
	PushNotificationsEnabled bool          `gorm:"not null;default:true" json:"push_notifications_enabled"`
	EquippedBadgeIDs         pq.Int64Array `gorm:"type:integer[]" json:"equipped_badge_ids"`

	Answers       []Answer       `gorm:"foreignKey:UserID" json:"-"`
	RankingScores []RankingScore `gorm:"foreignKey:UserID" json:"-"`
	UserBadges    []UserBadge    `gorm:"foreignKey:UserID" json:"user_badges,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// EquippedBadges возвращает объекты надетых бейджей в порядке списка EquippedBadgeIDs.
// ID, отсутствующие среди полученных пользователем бейджей, пропускаются.
// Требует предзагруженных UserBadges с относящимися Badge.
func (u *User) EquippedBadges() []Badge {
	if len(u.EquippedBadgeIDs) == 0 || len(u.UserBadges) == 0 {
		return []Badge{}
	}

	acquired := make(map[uint]Badge, len(u.UserBadges))
	for _, ub := range u.UserBadges {
		if ub.Badge != nil {
			acquired[ub.BadgeID] = *ub.Badge
		}
	}

	equipped := make([]Badge, 0, len(u.EquippedBadgeIDs))
	for _, id := range u.EquippedBadgeIDs {
		if badge, ok := acquired[uint(id)]; ok {
			equipped = append(equipped, badge)
		}
	}
	return equipped
}
