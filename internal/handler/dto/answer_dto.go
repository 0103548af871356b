package dto

import (
	"github.com/yourusername/quizrank-api/internal/domain/entity"
)

// SubmitAnswerRequest - запрос на прием ответа
type SubmitAnswerRequest struct {
	QuizID     uint   `json:"quiz_id" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
	UserAnswer string `json:"user_answer" binding:"required"`
	Point      int    `json:"point" binding:"gte=0"`
	BonusPoint int    `json:"bonus_point" binding:"gte=0"`
	TimeTaken  *int   `json:"time_taken,omitempty"`
}

// AnswersByQuizIDsRequest - запрос ответов пользователя по списку вопросов
type AnswersByQuizIDsRequest struct {
	QuizIDs []uint `json:"quiz_ids" binding:"required,min=1"`
}

// AnswerDTO представляет сохраненный ответ в выдаче API
type AnswerDTO struct {
	ID         uint   `json:"id"`
	QuizID     uint   `json:"quiz_id"`
	CategoryID uint   `json:"category_id"`
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
	Point      int    `json:"point"`
	BonusPoint int    `json:"bonus_point"`
	TimeTaken  *int   `json:"time_taken,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// NewAnswerDTO преобразует сущность ответа в DTO
func NewAnswerDTO(answer *entity.Answer) AnswerDTO {
	return AnswerDTO{
		ID:         answer.ID,
		QuizID:     answer.QuizID,
		CategoryID: answer.CategoryID,
		UserAnswer: answer.UserAnswer,
		IsCorrect:  answer.IsCorrect,
		Point:      answer.Point,
		BonusPoint: answer.BonusPoint,
		TimeTaken:  answer.TimeTaken,
		CreatedAt:  answer.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
