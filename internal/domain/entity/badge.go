package entity

import (
	"time"
)

// Badge представляет бейдж, отображаемый в лидерборде
type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"size:255;not null" json:"description"`
	ImageURL    string `gorm:"size:255;not null" json:"image_url"`
	Type        string `gorm:"size:50;not null" json:"type"`
	Condition   string `gorm:"size:255;not null" json:"condition"`
	Grade       string `gorm:"size:50;not null" json:"grade"` // BRONZE, SILVER, GOLD, PLATINUM, DIAMOND, MASTER, GRANDMASTER

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Badge) TableName() string {
	return "badges"
}

// UserBadge связывает пользователя с полученным бейджем
type UserBadge struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  string `gorm:"size:64;not null;index" json:"user_id"`
	BadgeID uint   `gorm:"not null;index" json:"badge_id"`
	Badge   *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (UserBadge) TableName() string {
	return "user_badges"
}
