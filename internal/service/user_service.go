package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/quizrank-api/internal/domain/repository"
	"github.com/yourusername/quizrank-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
)

// UserService предоставляет операции с профилем пользователя
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile возвращает профиль пользователя с надетыми бейджами
func (s *UserService) GetProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
		}
		log.Printf("[UserService] Ошибка загрузки пользователя %s: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to load user", apperrors.ErrUnavailable)
	}
	return dto.NewUserProfileResponse(user), nil
}
