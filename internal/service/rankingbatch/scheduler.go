package rankingbatch

import (
	"context"
	"log"
	"time"
)

// Scheduler запускает агрегатор раз в сутки в настроенный час гражданского пояса.
// Ошибки прогона логируются и не пересекают границу планировщика:
// следующая попытка - штатное срабатывание на следующий день.
type Scheduler struct {
	config     *Config
	aggregator *Aggregator

	// now подменяется в тестах для детерминированности
	now func() time.Time
}

// NewScheduler создает новый планировщик батч-агрегации
func NewScheduler(config *Config, aggregator *Aggregator) *Scheduler {
	return &Scheduler{
		config:     config,
		aggregator: aggregator,
		now:        time.Now,
	}
}

// Run блокирует до отмены контекста, выполняя агрегацию по расписанию.
// Запускается из main как отдельная горутина.
func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("[RankingScheduler] Запуск: агрегация ежедневно в %02d:00 (пояс UTC%+d)",
		s.config.BatchHour, s.config.CivilOffsetHours)

	for {
		next := s.nextFiring(s.now())
		wait := next.Sub(s.now())
		log.Printf("[RankingScheduler] Следующий прогон в %s (через %v)", next.Format(time.RFC3339), wait.Round(time.Second))

		select {
		case <-time.After(wait):
			ref := s.now()
			if err := s.aggregator.Run(ctx, ref); err != nil {
				// Не ретраим внутри суток: транзакция откатилась целиком,
				// частичного состояния нет
				log.Printf("[RankingScheduler] Прогон агрегатора завершился ошибкой: %v", err)
			}
		case <-ctx.Done():
			log.Println("[RankingScheduler] Завершение работы планировщика")
			return
		}
	}
}

// nextFiring возвращает ближайший момент запуска после ref
func (s *Scheduler) nextFiring(ref time.Time) time.Time {
	loc := time.FixedZone("civil", s.config.CivilOffsetHours*3600)
	c := ref.In(loc)

	next := time.Date(c.Year(), c.Month(), c.Day(), s.config.BatchHour, 0, 0, 0, loc)
	if !next.After(c) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
