package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/quizrank-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
	"github.com/yourusername/quizrank-api/internal/service"
)

// RankingHandler обрабатывает запросы лидербордов
type RankingHandler struct {
	rankingService *service.RankingService
}

// NewRankingHandler создает новый обработчик рейтингов
func NewRankingHandler(rankingService *service.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

// parseIntQuery читает целочисленный query-параметр; пустое значение дает 0
func parseIntQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: параметр %s должен быть числом", apperrors.ErrValidation, name)
	}
	return v, nil
}

// GetDailyRanking обрабатывает запрос дневного топа
// GET /api/rankings/daily?date=YYYY-MM-DD
func (h *RankingHandler) GetDailyRanking(c *gin.Context) {
	resp, err := h.rankingService.GetDailyRanking(c.Query("date"))
	if err != nil {
		h.handleRankingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// weeklyParams читает wYear/week; current=true игнорирует явные параметры
func weeklyParams(c *gin.Context) (int, int, error) {
	if c.Query("current") == "true" {
		return 0, 0, nil
	}
	year, err := parseIntQuery(c, "wYear")
	if err != nil {
		return 0, 0, err
	}
	week, err := parseIntQuery(c, "week")
	if err != nil {
		return 0, 0, err
	}
	return year, week, nil
}

// monthlyParams читает mYear/month; current=true игнорирует явные параметры
func monthlyParams(c *gin.Context) (int, int, error) {
	if c.Query("current") == "true" {
		return 0, 0, nil
	}
	year, err := parseIntQuery(c, "mYear")
	if err != nil {
		return 0, 0, err
	}
	month, err := parseIntQuery(c, "month")
	if err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

// GetWeeklyRanking обрабатывает запрос недельного топа
// GET /api/rankings/weekly?wYear=2025&week=30
func (h *RankingHandler) GetWeeklyRanking(c *gin.Context) {
	year, week, err := weeklyParams(c)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}

	resp, err := h.rankingService.GetWeeklyRanking(year, week)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMonthlyRanking обрабатывает запрос месячного топа
// GET /api/rankings/monthly?mYear=2025&month=7
func (h *RankingHandler) GetMonthlyRanking(c *gin.Context) {
	year, month, err := monthlyParams(c)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}

	resp, err := h.rankingService.GetMonthlyRanking(year, month)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyDailyRanking возвращает позицию текущего пользователя в дневном рейтинге
// GET /api/rankings/daily/me
func (h *RankingHandler) GetMyDailyRanking(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	resp, err := h.rankingService.GetMyDailyRanking(userID, c.Query("date"))
	if err != nil {
		h.handleRankingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyWeeklyRanking возвращает позицию текущего пользователя в недельном рейтинге
// GET /api/rankings/weekly/me
func (h *RankingHandler) GetMyWeeklyRanking(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	year, week, err := weeklyParams(c)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}

	resp, err := h.rankingService.GetMyWeeklyRanking(userID, year, week)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyMonthlyRanking возвращает позицию текущего пользователя в месячном рейтинге
// GET /api/rankings/monthly/me
func (h *RankingHandler) GetMyMonthlyRanking(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	year, month, err := monthlyParams(c)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}

	resp, err := h.rankingService.GetMyMonthlyRanking(userID, year, month)
	if err != nil {
		h.handleRankingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportRanking возвращает обработчик экспорта лидерборда указанного типа
// GET /api/rankings/{daily|weekly|monthly}/export?format=csv|xlsx
func (h *RankingHandler) ExportRanking(rankingType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", "csv")

		var (
			resp *dto.RankingListResponse
			err  error
		)
		switch rankingType {
		case "daily":
			resp, err = h.rankingService.GetDailyRanking(c.Query("date"))
		case "weekly":
			var year, week int
			if year, week, err = weeklyParams(c); err == nil {
				resp, err = h.rankingService.GetWeeklyRanking(year, week)
			}
		default:
			var year, month int
			if year, month, err = monthlyParams(c); err == nil {
				resp, err = h.rankingService.GetMonthlyRanking(year, month)
			}
		}
		if err != nil {
			h.handleRankingError(c, err)
			return
		}

		filename := fmt.Sprintf("ranking_%s_%s_%s", rankingType, resp.Period.Value, time.Now().Format("2006-01-02"))

		switch format {
		case "xlsx":
			h.exportXLSX(c, resp, filename)
		default:
			h.exportCSV(c, resp, filename)
		}
	}
}

// exportCSV выгружает лидерборд в CSV с правильным экранированием спецсимволов
func (h *RankingHandler) exportCSV(c *gin.Context, resp *dto.RankingListResponse, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Место", "Пользователь", "Очки", "Попыток", "Правильных", "Точность (%)"})

	for _, e := range resp.Data {
		rank := ""
		if e.Rank != nil {
			rank = strconv.Itoa(*e.Rank)
		}
		writer.Write([]string{
			rank,
			sanitizeForExcel(e.User.NickName),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.TotalAttempts),
			strconv.Itoa(e.CorrectAnswers),
			strconv.Itoa(e.Accuracy),
		})
	}
}

// exportXLSX выгружает лидерборд в Excel через StreamWriter
func (h *RankingHandler) exportXLSX(c *gin.Context, resp *dto.RankingListResponse, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Рейтинг"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[RankingHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Пользователь", "Очки", "Попыток", "Правильных", "Точность (%)"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[RankingHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range resp.Data {
		rowNum := i + 2 // Первая строка - заголовки
		cell := fmt.Sprintf("A%d", rowNum)

		rank := 0
		if e.Rank != nil {
			rank = *e.Rank
		}

		row := []interface{}{rank, sanitizeForExcel(e.User.NickName), e.Score, e.TotalAttempts, e.CorrectAnswers, e.Accuracy}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[RankingHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[RankingHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[RankingHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleRankingError преобразует ошибки сервиса в HTTP-статусы
func (h *RankingHandler) handleRankingError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка валидации параметров периода", "error_type": "validation_error"})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Запрашиваемый ресурс не найден", "error_type": "not_found"})
	} else if errors.Is(err, apperrors.ErrUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Сервис рейтинга временно недоступен", "error_type": "service_unavailable"})
	} else {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера", "error_type": "internal_server_error"})
	}
}
