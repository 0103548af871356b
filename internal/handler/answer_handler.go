package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizrank-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
	"github.com/yourusername/quizrank-api/internal/service"
)

// AnswerHandler обрабатывает прием ответов на вопросы викторины
type AnswerHandler struct {
	answerService *service.AnswerService
}

// NewAnswerHandler создает новый обработчик ответов
func NewAnswerHandler(answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
	}
}

// SubmitAnswer принимает ответ пользователя на вопрос
// POST /api/answers
func (h *AnswerHandler) SubmitAnswer(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса", "error_type": "validation_error"})
		return
	}

	result, err := h.answerService.SubmitAnswer(userID, &req)
	if err != nil {
		h.handleAnswerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": result})
}

// GetAnswersByQuizIDs возвращает ответы текущего пользователя на список вопросов
// POST /api/answers/by-quiz-ids
func (h *AnswerHandler) GetAnswersByQuizIDs(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	var req dto.AnswersByQuizIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса", "error_type": "validation_error"})
		return
	}

	answers, err := h.answerService.GetUserAnswersByQuizIDs(userID, req.QuizIDs)
	if err != nil {
		h.handleAnswerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": answers})
}

// handleAnswerError преобразует ошибки сервиса в HTTP-статусы
func (h *AnswerHandler) handleAnswerError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка валидации данных", "error_type": "validation_error"})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Вопрос не найден", "error_type": "not_found"})
	} else if errors.Is(err, apperrors.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Сервис временно недоступен", "error_type": "service_unavailable"})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера", "error_type": "internal_server_error"})
	}
}
