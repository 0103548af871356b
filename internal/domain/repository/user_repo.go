package repository

import (
	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// GetByID возвращает пользователя с предзагруженными бейджами
	GetByID(id string) (*entity.User, error)
}
