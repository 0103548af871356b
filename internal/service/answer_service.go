package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
	"github.com/yourusername/quizrank-api/internal/domain/repository"
	"github.com/yourusername/quizrank-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
	"github.com/yourusername/quizrank-api/internal/service/rankingbatch"
)

// AnswerService принимает ответы пользователей и ведет журнал попыток,
// который ночной агрегатор сворачивает в рейтинговые очки
type AnswerService struct {
	answerRepo repository.AnswerRepository
	quizRepo   repository.QuizRepository
	db         rankingbatch.TxManager
}

// NewAnswerService создает новый сервис приема ответов
func NewAnswerService(
	answerRepo repository.AnswerRepository,
	quizRepo repository.QuizRepository,
	db rankingbatch.TxManager,
) *AnswerService {
	return &AnswerService{
		answerRepo: answerRepo,
		quizRepo:   quizRepo,
		db:         db,
	}
}

// normalizeAnswer приводит ответ к канонической форме для сравнения
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SubmitAnswer проверяет ответ на вопрос, начисляет очки и в одной транзакции
// сохраняет запись журнала и обновленную статистику вопроса.
// При неправильном ответе очки обнуляются независимо от присланных значений.
func (s *AnswerService) SubmitAnswer(userID string, req *dto.SubmitAnswerRequest) (*dto.AnswerDTO, error) {
	quiz, err := s.quizRepo.GetByID(req.QuizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: quiz %d not found", apperrors.ErrNotFound, req.QuizID)
		}
		log.Printf("[AnswerService] Ошибка загрузки вопроса %d: %v", req.QuizID, err)
		return nil, fmt.Errorf("%w: failed to load quiz", apperrors.ErrUnavailable)
	}

	isCorrect := normalizeAnswer(req.UserAnswer) == normalizeAnswer(quiz.Correct)

	answer := &entity.Answer{
		UserID:     userID,
		QuizID:     quiz.ID,
		CategoryID: req.CategoryID,
		UserAnswer: req.UserAnswer,
		IsCorrect:  isCorrect,
		TimeTaken:  req.TimeTaken,
	}
	if isCorrect {
		answer.Point = req.Point
		answer.BonusPoint = req.BonusPoint
	}

	quiz.ApplyAnswer(isCorrect)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.answerRepo.Create(tx, answer); err != nil {
			return fmt.Errorf("failed to save answer: %w", err)
		}
		if err := s.quizRepo.Update(tx, quiz); err != nil {
			return fmt.Errorf("failed to update quiz stats: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("[AnswerService] Ошибка сохранения ответа пользователя %s на вопрос %d: %v", userID, quiz.ID, err)
		return nil, fmt.Errorf("%w: failed to record answer", apperrors.ErrUnavailable)
	}

	result := dto.NewAnswerDTO(answer)
	return &result, nil
}

// GetUserAnswersByQuizIDs возвращает ответы пользователя на указанные вопросы
// в порядке их создания
func (s *AnswerService) GetUserAnswersByQuizIDs(userID string, quizIDs []uint) ([]dto.AnswerDTO, error) {
	if len(quizIDs) == 0 {
		return nil, fmt.Errorf("%w: quiz_ids must not be empty", apperrors.ErrValidation)
	}
	if len(quizIDs) > 100 {
		return nil, fmt.Errorf("%w: too many quiz_ids (max 100)", apperrors.ErrValidation)
	}

	answers, err := s.answerRepo.GetByUserAndQuizIDs(userID, quizIDs)
	if err != nil {
		log.Printf("[AnswerService] Ошибка получения ответов пользователя %s: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to load answers", apperrors.ErrUnavailable)
	}

	result := make([]dto.AnswerDTO, len(answers))
	for i := range answers {
		result[i] = dto.NewAnswerDTO(&answers[i])
	}
	return result, nil
}
