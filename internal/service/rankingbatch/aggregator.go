package rankingbatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
	"github.com/yourusername/quizrank-api/internal/pkg/period"
)

// Aggregator сворачивает ответы одного гражданского дня в три шкалы рейтинга.
// Целевой день - "вчера" относительно переданного опорного момента, потому что
// обрабатываются только завершенные дни.
type Aggregator struct {
	config  *Config
	deps    *Dependencies
	deriver period.Deriver
}

// NewAggregator создает новый агрегатор рейтинга
func NewAggregator(config *Config, deps *Dependencies) *Aggregator {
	return &Aggregator{
		config:  config,
		deps:    deps,
		deriver: period.Deriver{OffsetHours: config.CivilOffsetHours},
	}
}

// Run выполняет один прогон агрегации за день, предшествующий ref.
// Все upsertы прогона выполняются в одной транзакции: либо вклад дня
// применяется целиком, либо не применяется вовсе.
//
// ВНИМАНИЕ: недельные и месячные строки накапливаются, поэтому повторный
// прогон за уже обработанный день удваивает их значения. Дневные строки
// перезаписываются и повторный прогон для них безопасен. Защиты от двойного
// запуска нет - корректность зависит от того, что планировщик срабатывает
// ровно один раз в гражданские сутки.
func (a *Aggregator) Run(ctx context.Context, ref time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := a.deriver.Yesterday(ref)
	start, end := a.deriver.DayWindow(target)

	log.Printf("[Aggregator] Прогон за день %s: окно UTC [%s, %s)",
		a.deriver.DailyKey(target), start.Format(time.RFC3339), end.Format(time.RFC3339))

	stats, err := a.deps.AnswerRepo.AggregateDailyStats(start, end)
	if err != nil {
		return fmt.Errorf("failed to aggregate daily stats: %w", err)
	}

	if len(stats) == 0 {
		log.Printf("[Aggregator] Активности за день нет, записывать нечего")
		return nil
	}

	// Все три ключа считаются один раз от целевого дня и применяются
	// ко всем пользователям прогона
	dailyKey, weeklyKey, monthlyKey := a.deriver.Keys(target)
	log.Printf("[Aggregator] Пользователей с активностью: %d, периоды: %s / %s / %s",
		len(stats), dailyKey, weeklyKey, monthlyKey)

	err = a.deps.DB.Transaction(func(tx *gorm.DB) error {
		for _, stat := range stats {
			if err := a.deps.RankingRepo.ReplaceDaily(tx, dailyKey, stat); err != nil {
				return fmt.Errorf("daily upsert failed for user %s: %w", stat.UserID, err)
			}
			if err := a.deps.RankingRepo.Accumulate(tx, entity.RankingWeekly, weeklyKey, stat); err != nil {
				return fmt.Errorf("weekly upsert failed for user %s: %w", stat.UserID, err)
			}
			if err := a.deps.RankingRepo.Accumulate(tx, entity.RankingMonthly, monthlyKey, stat); err != nil {
				return fmt.Errorf("monthly upsert failed for user %s: %w", stat.UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ranking batch transaction failed: %w", err)
	}

	a.invalidateCache(dailyKey, weeklyKey, monthlyKey)

	log.Printf("[Aggregator] Прогон за день %s завершен успешно", dailyKey)
	return nil
}

// invalidateCache сбрасывает закешированные страницы затронутых периодов.
// Ошибки кеша не считаются ошибкой прогона: данные в хранилище уже применены.
func (a *Aggregator) invalidateCache(dailyKey, weeklyKey, monthlyKey string) {
	if a.deps.CacheRepo == nil {
		return
	}
	keys := []string{
		CacheKey(entity.RankingDaily, dailyKey),
		CacheKey(entity.RankingWeekly, weeklyKey),
		CacheKey(entity.RankingMonthly, monthlyKey),
	}
	for _, key := range keys {
		if err := a.deps.CacheRepo.Delete(key); err != nil {
			log.Printf("[Aggregator] Не удалось сбросить кеш %s: %v", key, err)
		}
	}
}
