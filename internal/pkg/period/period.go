// Package period отвечает за расчет ключей периодов рейтинга (день/неделя/месяц).
// Все границы календарных периодов считаются в едином "гражданском" часовом поясе
// (фиксированное смещение от UTC), отдельном от пояса хранения (UTC).
package period

import (
	"fmt"
	"regexp"
	"time"

	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
)

// Type определяет гранулярность рейтингового периода
type Type string

const (
	TypeDaily   Type = "DAILY"
	TypeWeekly  Type = "WEEKLY"
	TypeMonthly Type = "MONTHLY"
)

var dailyKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Deriver преобразует момент времени в ключи периодов с учетом гражданского смещения.
// Нулевой Deriver работает в UTC.
type Deriver struct {
	// OffsetHours - смещение гражданского пояса от UTC в часах (например, 9 для KST)
	OffsetHours int
}

// civil возвращает момент, сдвинутый в гражданский пояс.
// Все три ключа обязаны считаться от одного и того же сдвинутого момента,
// иначе день и неделя одного пользователя могут разъехаться по разным бакетам.
func (d Deriver) civil(instant time.Time) time.Time {
	loc := time.FixedZone("civil", d.OffsetHours*3600)
	return instant.In(loc)
}

// DailyKey возвращает ключ дня в формате YYYY-MM-DD
func (d Deriver) DailyKey(instant time.Time) string {
	return d.civil(instant).Format("2006-01-02")
}

// WeeklyKey возвращает ключ недели в формате YYYY-Www по ISO-8601.
// ISO-год может отличаться от календарного на границе года
// (31 декабря может попасть в W01 следующего ISO-года и наоборот).
func (d Deriver) WeeklyKey(instant time.Time) string {
	isoYear, isoWeek := d.civil(instant).ISOWeek()
	return FormatWeekly(isoYear, isoWeek)
}

// MonthlyKey возвращает ключ месяца в формате YYYY-MM
func (d Deriver) MonthlyKey(instant time.Time) string {
	return d.civil(instant).Format("2006-01")
}

// Keys возвращает все три ключа, рассчитанные от одного момента
func (d Deriver) Keys(instant time.Time) (daily, weekly, monthly string) {
	c := d.civil(instant)
	isoYear, isoWeek := c.ISOWeek()
	return c.Format("2006-01-02"), FormatWeekly(isoYear, isoWeek), c.Format("2006-01")
}

// Yesterday возвращает момент "вчера" относительно ref в гражданском поясе.
// Батч и запросы "текущего" периода всегда отталкиваются от вчерашнего дня,
// потому что агрегатор обрабатывает только завершенные дни.
func (d Deriver) Yesterday(ref time.Time) time.Time {
	return d.civil(ref).AddDate(0, 0, -1)
}

// DayWindow возвращает полуоткрытое окно [start, end) гражданского дня,
// содержащего instant, в UTC - для запроса к хранилищу ответов.
func (d Deriver) DayWindow(instant time.Time) (start, end time.Time) {
	c := d.civil(instant)
	start = time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, c.Location())
	end = start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

// FormatWeekly формирует ключ недели из ISO-года и номера недели (с ведущим нулем)
func FormatWeekly(isoYear, isoWeek int) string {
	return fmt.Sprintf("%d-W%02d", isoYear, isoWeek)
}

// FormatMonthly формирует ключ месяца из года и номера месяца
func FormatMonthly(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// ParseDailyKey валидирует и нормализует явный параметр даты (YYYY-MM-DD)
func ParseDailyKey(value string) (string, error) {
	if !dailyKeyPattern.MatchString(value) {
		return "", fmt.Errorf("%w: invalid date format %q, expected YYYY-MM-DD", apperrors.ErrValidation, value)
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, value)
	}
	return t.Format("2006-01-02"), nil
}

// ValidateWeekly проверяет явные параметры ISO-года и номера недели
func ValidateWeekly(isoYear, isoWeek int) error {
	if isoYear < 2000 || isoYear > 2100 {
		return fmt.Errorf("%w: isoYear %d is out of range", apperrors.ErrValidation, isoYear)
	}
	if isoWeek < 1 || isoWeek > 53 {
		return fmt.Errorf("%w: isoWeek %d must be between 1 and 53", apperrors.ErrValidation, isoWeek)
	}
	return nil
}

// ValidateMonthly проверяет явные параметры года и месяца
func ValidateMonthly(year, month int) error {
	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: year %d is out of range", apperrors.ErrValidation, year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d must be between 1 and 12", apperrors.ErrValidation, month)
	}
	return nil
}
