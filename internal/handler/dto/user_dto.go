package dto

import (
	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// UserProfileResponse - профиль пользователя для GET /users/me
type UserProfileResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	NickName       string     `json:"nick_name"`
	Email          string     `json:"email"`
	Platform       string     `json:"platform"`
	Picture        string     `json:"picture"`
	Introduction   string     `json:"introduction"`
	ProfileImage   string     `json:"profile_image"`
	EquippedBadges []BadgeDTO `json:"equipped_badges"`
}

// NewUserProfileResponse собирает профиль с надетыми бейджами
func NewUserProfileResponse(user *entity.User) *UserProfileResponse {
	summary := NewUserSummaryDTO(user)
	return &UserProfileResponse{
		ID:             user.ID,
		Name:           user.Name,
		NickName:       user.NickName,
		Email:          user.Email,
		Platform:       string(user.Platform),
		Picture:        user.Picture,
		Introduction:   user.Introduction,
		ProfileImage:   user.ProfileImage,
		EquippedBadges: summary.EquippedBadges,
	}
}
