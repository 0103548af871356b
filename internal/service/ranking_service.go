package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
	"github.com/yourusername/quizrank-api/internal/domain/repository"
	"github.com/yourusername/quizrank-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
	"github.com/yourusername/quizrank-api/internal/pkg/period"
	"github.com/yourusername/quizrank-api/internal/service/rankingbatch"
)

// RankingService обслуживает чтение лидербордов: топ-N и позицию пользователя.
// Полностью stateless, конкурентные вызовы не требуют координации.
type RankingService struct {
	rankingRepo repository.RankingRepository
	cacheRepo   repository.CacheRepository
	deriver     period.Deriver
	topLimit    int
	cacheTTL    time.Duration

	// now подменяется в тестах, чтобы "текущий" период был воспроизводим
	now func() time.Time
}

// NewRankingService создает новый сервис запросов рейтинга.
// cacheRepo может быть nil - тогда кеширование отключено.
func NewRankingService(
	rankingRepo repository.RankingRepository,
	cacheRepo repository.CacheRepository,
	civilOffsetHours int,
	topLimit int,
	cacheTTL time.Duration,
) *RankingService {
	if topLimit <= 0 || topLimit > 100 {
		topLimit = 100
	}
	return &RankingService{
		rankingRepo: rankingRepo,
		cacheRepo:   cacheRepo,
		deriver:     period.Deriver{OffsetHours: civilOffsetHours},
		topLimit:    topLimit,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// resolveDaily возвращает дневной ключ: явная дата или "вчера"
// (сегодняшний день всегда неполон - агрегатор обрабатывает только завершенные дни)
func (s *RankingService) resolveDaily(date string) (string, error) {
	if date != "" {
		return period.ParseDailyKey(date)
	}
	return s.deriver.DailyKey(s.deriver.Yesterday(s.now())), nil
}

// resolveWeekly возвращает недельный ключ и его ISO-год/неделю.
// Без явных параметров берется неделя, содержащая вчерашний день: в первый день
// новой ISO-недели это прошлая неделя - лидерборд отражает последний
// агрегированный день, и это сознательное поведение.
func (s *RankingService) resolveWeekly(isoYear, isoWeek int) (string, int, int, error) {
	if isoYear != 0 || isoWeek != 0 {
		if err := period.ValidateWeekly(isoYear, isoWeek); err != nil {
			return "", 0, 0, err
		}
		return period.FormatWeekly(isoYear, isoWeek), isoYear, isoWeek, nil
	}
	y, w := s.deriver.Yesterday(s.now()).ISOWeek()
	return period.FormatWeekly(y, w), y, w, nil
}

// resolveMonthly возвращает месячный ключ и его год/месяц
func (s *RankingService) resolveMonthly(year, month int) (string, int, int, error) {
	if year != 0 || month != 0 {
		if err := period.ValidateMonthly(year, month); err != nil {
			return "", 0, 0, err
		}
		return period.FormatMonthly(year, month), year, month, nil
	}
	yesterday := s.deriver.Yesterday(s.now())
	return period.FormatMonthly(yesterday.Year(), int(yesterday.Month())), yesterday.Year(), int(yesterday.Month()), nil
}

// GetDailyRanking возвращает дневной топ; date - явный ключ YYYY-MM-DD или ""
func (s *RankingService) GetDailyRanking(date string) (*dto.RankingListResponse, error) {
	key, err := s.resolveDaily(date)
	if err != nil {
		return nil, err
	}
	return s.topList(entity.RankingDaily, key, dto.NewDailyPeriodDTO(key))
}

// GetWeeklyRanking возвращает недельный топ; нулевые isoYear/isoWeek означают текущую неделю
func (s *RankingService) GetWeeklyRanking(isoYear, isoWeek int) (*dto.RankingListResponse, error) {
	key, y, w, err := s.resolveWeekly(isoYear, isoWeek)
	if err != nil {
		return nil, err
	}
	return s.topList(entity.RankingWeekly, key, dto.NewWeeklyPeriodDTO(key, y, w))
}

// GetMonthlyRanking возвращает месячный топ; нулевые year/month означают текущий месяц
func (s *RankingService) GetMonthlyRanking(year, month int) (*dto.RankingListResponse, error) {
	key, y, m, err := s.resolveMonthly(year, month)
	if err != nil {
		return nil, err
	}
	return s.topList(entity.RankingMonthly, key, dto.NewMonthlyPeriodDTO(key, y, m))
}

// topList собирает топ периода; ранг - плотный, по позиции в выдаче,
// равные счета получают разные последовательные ранги
func (s *RankingService) topList(rankingType entity.RankingType, key string, periodDTO dto.PeriodDTO) (*dto.RankingListResponse, error) {
	cacheKey := rankingbatch.CacheKey(rankingType, key)

	if s.cacheEnabled() {
		var cached dto.RankingListResponse
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			// Кеш недоступен - идем в хранилище, ошибку только логируем
			log.Printf("[RankingService] Ошибка чтения кеша %s: %v", cacheKey, err)
		}
	}

	scores, err := s.rankingRepo.GetTop(rankingType, key, s.topLimit)
	if err != nil {
		log.Printf("[RankingService] Ошибка получения топа (%s, %s): %v", rankingType, key, err)
		return nil, fmt.Errorf("%w: failed to load ranking", apperrors.ErrUnavailable)
	}

	entries := make([]dto.RankingEntryDTO, len(scores))
	for i := range scores {
		rank := i + 1
		entries[i] = dto.NewRankingEntryDTO(&rank, &scores[i])
	}

	response := &dto.RankingListResponse{
		Success: true,
		Data:    entries,
		Period:  periodDTO,
	}

	if s.cacheEnabled() {
		if err := s.cacheRepo.SetJSON(cacheKey, response, s.cacheTTL); err != nil {
			log.Printf("[RankingService] Ошибка записи кеша %s: %v", cacheKey, err)
		}
	}

	return response, nil
}

// GetMyDailyRanking возвращает позицию пользователя в дневном рейтинге
func (s *RankingService) GetMyDailyRanking(userID, date string) (*dto.MyRankingResponse, error) {
	key, err := s.resolveDaily(date)
	if err != nil {
		return nil, err
	}
	periodDTO := dto.NewDailyPeriodDTO(key)
	return s.myRank(entity.RankingDaily, key, userID, &periodDTO)
}

// GetMyWeeklyRanking возвращает позицию пользователя в недельном рейтинге
func (s *RankingService) GetMyWeeklyRanking(userID string, isoYear, isoWeek int) (*dto.MyRankingResponse, error) {
	key, y, w, err := s.resolveWeekly(isoYear, isoWeek)
	if err != nil {
		return nil, err
	}
	periodDTO := dto.NewWeeklyPeriodDTO(key, y, w)
	return s.myRank(entity.RankingWeekly, key, userID, &periodDTO)
}

// GetMyMonthlyRanking возвращает позицию пользователя в месячном рейтинге
func (s *RankingService) GetMyMonthlyRanking(userID string, year, month int) (*dto.MyRankingResponse, error) {
	key, y, m, err := s.resolveMonthly(year, month)
	if err != nil {
		return nil, err
	}
	periodDTO := dto.NewMonthlyPeriodDTO(key, y, m)
	return s.myRank(entity.RankingMonthly, key, userID, &periodDTO)
}

// myRank считает ранг как 1 + число строк со строго большим счетом:
// пользователи с равным счетом не считаются против вызывающего.
// Это сознательно отличается от плотного ранга в topList.
func (s *RankingService) myRank(rankingType entity.RankingType, key, userID string, periodDTO *dto.PeriodDTO) (*dto.MyRankingResponse, error) {
	score, err := s.rankingRepo.GetUserScore(rankingType, key, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Отсутствие активности за период - валидное состояние, не ошибка
			return &dto.MyRankingResponse{
				Success: true,
				Data:    dto.EmptyRankingEntryDTO(userID),
			}, nil
		}
		log.Printf("[RankingService] Ошибка получения строки пользователя %s (%s, %s): %v", userID, rankingType, key, err)
		return nil, fmt.Errorf("%w: failed to load user ranking", apperrors.ErrUnavailable)
	}

	higher, err := s.rankingRepo.CountWithHigherScore(rankingType, key, score.Score)
	if err != nil {
		log.Printf("[RankingService] Ошибка подсчета ранга пользователя %s (%s, %s): %v", userID, rankingType, key, err)
		return nil, fmt.Errorf("%w: failed to compute rank", apperrors.ErrUnavailable)
	}

	rank := int(higher) + 1
	return &dto.MyRankingResponse{
		Success: true,
		Data:    dto.NewRankingEntryDTO(&rank, score),
		Period:  periodDTO,
	}, nil
}

func (s *RankingService) cacheEnabled() bool {
	return s.cacheRepo != nil && s.cacheTTL > 0
}
