package rankingbatch

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
	"github.com/yourusername/quizrank-api/internal/domain/repository"
)

// Config содержит настройки батч-агрегации рейтинга
type Config struct {
	// CivilOffsetHours - смещение гражданского пояса от UTC в часах.
	// Границы дня/недели/месяца считаются в этом поясе, хранение - в UTC.
	CivilOffsetHours int

	// BatchHour - час суток (в гражданском поясе), в который запускается агрегатор
	BatchHour int
}

// DefaultConfig возвращает конфигурацию по умолчанию: пояс +9, запуск в 2 часа ночи
func DefaultConfig() *Config {
	return &Config{
		CivilOffsetHours: 9,
		BatchHour:        2,
	}
}

// TxManager абстрагирует границу транзакции хранилища.
// *gorm.DB удовлетворяет этому интерфейсу.
type TxManager interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// Dependencies группирует зависимости батч-агрегации
type Dependencies struct {
	AnswerRepo  repository.AnswerRepository
	RankingRepo repository.RankingRepository
	CacheRepo   repository.CacheRepository
	DB          TxManager
}

// CacheKey возвращает ключ кеша страницы лидерборда для типа рейтинга и периода.
// Используется сервисом запросов при чтении и агрегатором при инвалидации.
func CacheKey(rankingType entity.RankingType, period string) string {
	return fmt.Sprintf("rankings:%s:%s", rankingType, period)
}
