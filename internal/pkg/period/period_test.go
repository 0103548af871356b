package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
)

func TestDeriver_Keys_ConsistentOffset(t *testing.T) {
	d := Deriver{OffsetHours: 9}

	// 2025-07-27 16:30 UTC = 2025-07-28 01:30 по гражданскому поясу (+9)
	instant := time.Date(2025, 7, 27, 16, 30, 0, 0, time.UTC)

	daily, weekly, monthly := d.Keys(instant)
	assert.Equal(t, "2025-07-28", daily)
	assert.Equal(t, "2025-W31", weekly)
	assert.Equal(t, "2025-07", monthly)

	// Отдельные методы обязаны давать те же значения, что и Keys
	assert.Equal(t, daily, d.DailyKey(instant))
	assert.Equal(t, weekly, d.WeeklyKey(instant))
	assert.Equal(t, monthly, d.MonthlyKey(instant))
}

func TestDeriver_WeeklyKey_ISOYearBoundary(t *testing.T) {
	d := Deriver{OffsetHours: 0}

	// 31 декабря 2024 принадлежит первой неделе ISO-года 2025
	dec31 := time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-W01", d.WeeklyKey(dec31))

	// 1 января 2021 принадлежит последней (53-й) неделе ISO-года 2020
	jan1 := time.Date(2021, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2020-W53", d.WeeklyKey(jan1))
}

func TestDeriver_WeeklyKey_ZeroPadded(t *testing.T) {
	d := Deriver{OffsetHours: 0}
	feb := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-W06", d.WeeklyKey(feb))
}

func TestDeriver_DayWindow(t *testing.T) {
	d := Deriver{OffsetHours: 9}

	// Любой момент внутри гражданского дня 2025-07-27 (+9) дает одно и то же окно
	instant := time.Date(2025, 7, 27, 3, 0, 0, 0, time.FixedZone("civil", 9*3600))
	start, end := d.DayWindow(instant)

	// 2025-07-27 00:00 +09:00 = 2025-07-26 15:00 UTC
	assert.Equal(t, time.Date(2025, 7, 26, 15, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 7, 27, 15, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestDeriver_Yesterday_CrossesDayBoundary(t *testing.T) {
	d := Deriver{OffsetHours: 9}

	// 2025-07-27 16:30 UTC уже 28 июля по гражданскому поясу, значит "вчера" - 27 июля
	ref := time.Date(2025, 7, 27, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-27", d.DailyKey(d.Yesterday(ref)))

	// А в 14:30 UTC по гражданскому поясу еще 27 июля, "вчера" - 26 июля
	ref = time.Date(2025, 7, 27, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-26", d.DailyKey(d.Yesterday(ref)))
}

func TestDeriver_Yesterday_MayFallInPreviousWeek(t *testing.T) {
	d := Deriver{OffsetHours: 0}

	// Понедельник 2025-07-28: "вчера" (воскресенье 27-е) принадлежит предыдущей ISO-неделе
	monday := time.Date(2025, 7, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-W30", d.WeeklyKey(d.Yesterday(monday)))
	assert.Equal(t, "2025-W31", d.WeeklyKey(monday))
}

func TestFormatWeekly(t *testing.T) {
	assert.Equal(t, "2025-W01", FormatWeekly(2025, 1))
	assert.Equal(t, "2024-W52", FormatWeekly(2024, 52))
}

func TestFormatMonthly(t *testing.T) {
	assert.Equal(t, "2025-07", FormatMonthly(2025, 7))
	assert.Equal(t, "2025-01", FormatMonthly(2025, 1))
}

func TestParseDailyKey(t *testing.T) {
	key, err := ParseDailyKey("2025-07-27")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-27", key)

	_, err = ParseDailyKey("27-07-2025")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParseDailyKey("2025-13-45")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParseDailyKey("")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateWeekly(t *testing.T) {
	assert.NoError(t, ValidateWeekly(2025, 30))
	assert.ErrorIs(t, ValidateWeekly(2025, 0), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidateWeekly(2025, 54), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidateWeekly(1999, 10), apperrors.ErrValidation)
}

func TestValidateMonthly(t *testing.T) {
	assert.NoError(t, ValidateMonthly(2025, 7))
	assert.ErrorIs(t, ValidateMonthly(2025, 0), apperrors.ErrValidation)
	assert.ErrorIs(t, ValidateMonthly(2025, 13), apperrors.ErrValidation)
}
