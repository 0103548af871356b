package rankingbatch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/quizrank-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizrank-api/internal/pkg/errors"
)

// ============================================================================
// Моки и фейки для Aggregator
// ============================================================================

// MockAnswerRepo реализует repository.AnswerRepository
type MockAnswerRepo struct {
	mock.Mock
}

func (m *MockAnswerRepo) Create(tx *gorm.DB, answer *entity.Answer) error {
	args := m.Called(tx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepo) GetByUserAndQuizIDs(userID string, quizIDs []uint) ([]entity.Answer, error) {
	args := m.Called(userID, quizIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Answer), args.Error(1)
}

func (m *MockAnswerRepo) AggregateDailyStats(from, to time.Time) ([]entity.DailyUserStat, error) {
	args := m.Called(from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DailyUserStat), args.Error(1)
}

// fakeRankingStore реализует контракт replace/accumulate в памяти.
// Ключ строки - (тип, период, пользователь), как уникальный индекс в БД.
type fakeRankingStore struct {
	rows map[string]*entity.RankingScore
	// failFor - пользователь, на котором upsert вернет ошибку (для теста отката)
	failFor string
}

func newFakeRankingStore() *fakeRankingStore {
	return &fakeRankingStore{rows: make(map[string]*entity.RankingScore)}
}

func storeKey(t entity.RankingType, period, userID string) string {
	return fmt.Sprintf("%s|%s|%s", t, period, userID)
}

func (f *fakeRankingStore) snapshot() map[string]*entity.RankingScore {
	cp := make(map[string]*entity.RankingScore, len(f.rows))
	for k, v := range f.rows {
		row := *v
		cp[k] = &row
	}
	return cp
}

func (f *fakeRankingStore) ReplaceDaily(tx *gorm.DB, period string, stat entity.DailyUserStat) error {
	if stat.UserID == f.failFor {
		return errors.New("constraint violation")
	}
	f.rows[storeKey(entity.RankingDaily, period, stat.UserID)] = &entity.RankingScore{
		UserID:         stat.UserID,
		RankingType:    entity.RankingDaily,
		Period:         period,
		Score:          stat.Score(),
		TotalAttempts:  stat.Attempts,
		CorrectAnswers: stat.CorrectAnswers,
	}
	return nil
}

func (f *fakeRankingStore) Accumulate(tx *gorm.DB, rankingType entity.RankingType, period string, stat entity.DailyUserStat) error {
	if stat.UserID == f.failFor {
		return errors.New("constraint violation")
	}
	key := storeKey(rankingType, period, stat.UserID)
	if row, ok := f.rows[key]; ok {
		row.Score += stat.Score()
		row.TotalAttempts += stat.Attempts
		row.CorrectAnswers += stat.CorrectAnswers
		return nil
	}
	f.rows[key] = &entity.RankingScore{
		UserID:         stat.UserID,
		RankingType:    rankingType,
		Period:         period,
		Score:          stat.Score(),
		TotalAttempts:  stat.Attempts,
		CorrectAnswers: stat.CorrectAnswers,
	}
	return nil
}

func (f *fakeRankingStore) GetTop(rankingType entity.RankingType, period string, limit int) ([]entity.RankingScore, error) {
	return nil, nil
}

func (f *fakeRankingStore) GetUserScore(rankingType entity.RankingType, period string, userID string) (*entity.RankingScore, error) {
	if row, ok := f.rows[storeKey(rankingType, period, userID)]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeRankingStore) CountWithHigherScore(rankingType entity.RankingType, period string, score int) (int64, error) {
	var count int64
	for _, row := range f.rows {
		if row.RankingType == rankingType && row.Period == period && row.Score > score {
			count++
		}
	}
	return count, nil
}

// fakeTxManager выполняет колбэк без реальной БД и откатывает
// состояние фейкового хранилища при ошибке
type fakeTxManager struct {
	store *fakeRankingStore
	calls int
}

func (f *fakeTxManager) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	f.calls++
	before := f.store.snapshot()
	if err := fc(nil); err != nil {
		f.store.rows = before
		return err
	}
	return nil
}

func newTestAggregator(answerRepo *MockAnswerRepo, store *fakeRankingStore) (*Aggregator, *fakeTxManager) {
	txm := &fakeTxManager{store: store}
	cfg := &Config{CivilOffsetHours: 9, BatchHour: 2}
	agg := NewAggregator(cfg, &Dependencies{
		AnswerRepo:  answerRepo,
		RankingRepo: store,
		DB:          txm,
	})
	return agg, txm
}

// refForCivilDay возвращает опорный момент, при котором "вчера" в поясе +9 -
// это указанный гражданский день
func refForCivilDay(year int, month time.Month, day int) time.Time {
	civil := time.FixedZone("civil", 9*3600)
	return time.Date(year, month, day, 10, 0, 0, 0, civil).AddDate(0, 0, 1)
}

// ============================================================================
// Тесты
// ============================================================================

func TestAggregator_Run_WindowAndPeriodKeys(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	agg, _ := newTestAggregator(answerRepo, store)

	// Опорный момент: 2025-07-28 02:00 по поясу +9 -> целевой день 2025-07-27
	ref := time.Date(2025, 7, 27, 17, 0, 0, 0, time.UTC)

	// Окно гражданского дня 2025-07-27 (+9) в UTC
	wantStart := time.Date(2025, 7, 26, 15, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 7, 27, 15, 0, 0, 0, time.UTC)

	stats := []entity.DailyUserStat{
		{UserID: "user-a", Attempts: 2, CorrectAnswers: 1, Points: 10, BonusPoints: 5},
	}
	answerRepo.On("AggregateDailyStats", wantStart, wantEnd).Return(stats, nil).Once()

	err := agg.Run(context.Background(), ref)
	require.NoError(t, err)
	answerRepo.AssertExpectations(t)

	// Все три строки созданы с ключами, производными от одного целевого дня
	daily, err := store.GetUserScore(entity.RankingDaily, "2025-07-27", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 15, daily.Score)
	assert.Equal(t, 2, daily.TotalAttempts)
	assert.Equal(t, 1, daily.CorrectAnswers)

	weekly, err := store.GetUserScore(entity.RankingWeekly, "2025-W30", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 15, weekly.Score)

	monthly, err := store.GetUserScore(entity.RankingMonthly, "2025-07", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 15, monthly.Score)
}

func TestAggregator_Run_DailyRerunReplacesNotDoubles(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	agg, _ := newTestAggregator(answerRepo, store)

	ref := refForCivilDay(2025, 7, 27)
	stats := []entity.DailyUserStat{
		{UserID: "user-a", Attempts: 3, CorrectAnswers: 2, Points: 20, BonusPoints: 0},
	}
	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).Return(stats, nil).Twice()

	require.NoError(t, agg.Run(context.Background(), ref))
	require.NoError(t, agg.Run(context.Background(), ref))

	// Дневная строка перезаписана, значения не удвоены
	daily, err := store.GetUserScore(entity.RankingDaily, "2025-07-27", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 20, daily.Score)
	assert.Equal(t, 3, daily.TotalAttempts)
	assert.Equal(t, 2, daily.CorrectAnswers)
}

func TestAggregator_Run_WeeklyMonthlyRerunDoubles(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	agg, _ := newTestAggregator(answerRepo, store)

	ref := refForCivilDay(2025, 7, 27)
	stats := []entity.DailyUserStat{
		{UserID: "user-a", Attempts: 3, CorrectAnswers: 2, Points: 20, BonusPoints: 0},
	}
	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).Return(stats, nil).Twice()

	require.NoError(t, agg.Run(context.Background(), ref))
	require.NoError(t, agg.Run(context.Background(), ref))

	// Документированное поведение: повторный прогон за тот же день
	// именно удваивает накопительные строки, защиты от этого нет
	weekly, err := store.GetUserScore(entity.RankingWeekly, "2025-W30", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 40, weekly.Score)
	assert.Equal(t, 6, weekly.TotalAttempts)
	assert.Equal(t, 4, weekly.CorrectAnswers)

	monthly, err := store.GetUserScore(entity.RankingMonthly, "2025-07", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 40, monthly.Score)
}

func TestAggregator_Run_NoActivity_NoWrites(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	agg, txm := newTestAggregator(answerRepo, store)

	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).
		Return([]entity.DailyUserStat{}, nil).Once()

	err := agg.Run(context.Background(), refForCivilDay(2025, 7, 27))
	require.NoError(t, err)

	// Пользователи без активности не создают строк и транзакция не открывается
	assert.Empty(t, store.rows)
	assert.Equal(t, 0, txm.calls)
}

func TestAggregator_Run_ErrorRollsBackWholeDay(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	store.failFor = "user-b"
	agg, _ := newTestAggregator(answerRepo, store)

	stats := []entity.DailyUserStat{
		{UserID: "user-a", Attempts: 1, CorrectAnswers: 1, Points: 10},
		{UserID: "user-b", Attempts: 2, CorrectAnswers: 0, Points: 0},
	}
	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).Return(stats, nil).Once()

	err := agg.Run(context.Background(), refForCivilDay(2025, 7, 27))
	require.Error(t, err)

	// Откат затрагивает весь прогон: вклад user-a тоже не сохранен
	assert.Empty(t, store.rows)
}

func TestAggregator_Run_TwoDaysAccumulateIntoSameWeek(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	agg, _ := newTestAggregator(answerRepo, store)

	// День D: 2 ответа, один правильный на 10 очков
	dayD := refForCivilDay(2025, 7, 22) // вторник, ISO-неделя 2025-W30
	statsD := []entity.DailyUserStat{
		{UserID: "user-a", Attempts: 2, CorrectAnswers: 1, Points: 10, BonusPoints: 0},
	}
	// День D+1 той же ISO-недели
	dayD1 := refForCivilDay(2025, 7, 23)
	statsD1 := []entity.DailyUserStat{
		{UserID: "user-a", Attempts: 1, CorrectAnswers: 1, Points: 7, BonusPoints: 3},
	}

	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).Return(statsD, nil).Once()
	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).Return(statsD1, nil).Once()

	require.NoError(t, agg.Run(context.Background(), dayD))
	require.NoError(t, agg.Run(context.Background(), dayD1))

	// Дневные строки - снимки каждого дня
	daily, err := store.GetUserScore(entity.RankingDaily, "2025-07-22", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 10, daily.Score)
	assert.Equal(t, 2, daily.TotalAttempts)
	assert.Equal(t, 1, daily.CorrectAnswers)

	// Недельная строка - сумма вкладов обоих дней
	weekly, err := store.GetUserScore(entity.RankingWeekly, "2025-W30", "user-a")
	require.NoError(t, err)
	assert.Equal(t, 20, weekly.Score)
	assert.Equal(t, 3, weekly.TotalAttempts)
	assert.Equal(t, 2, weekly.CorrectAnswers)
}

func TestAggregator_Run_InvalidatesCacheKeys(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	cacheRepo := new(MockCacheRepo)

	txm := &fakeTxManager{store: store}
	agg := NewAggregator(&Config{CivilOffsetHours: 9, BatchHour: 2}, &Dependencies{
		AnswerRepo:  answerRepo,
		RankingRepo: store,
		CacheRepo:   cacheRepo,
		DB:          txm,
	})

	stats := []entity.DailyUserStat{
		{UserID: "user-a", Attempts: 1, CorrectAnswers: 1, Points: 5},
	}
	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).Return(stats, nil).Once()

	cacheRepo.On("Delete", "rankings:DAILY:2025-07-27").Return(nil).Once()
	cacheRepo.On("Delete", "rankings:WEEKLY:2025-W30").Return(nil).Once()
	cacheRepo.On("Delete", "rankings:MONTHLY:2025-07").Return(nil).Once()

	require.NoError(t, agg.Run(context.Background(), refForCivilDay(2025, 7, 27)))
	cacheRepo.AssertExpectations(t)
}

func TestAggregator_Run_AggregateError_NoTransaction(t *testing.T) {
	answerRepo := new(MockAnswerRepo)
	store := newFakeRankingStore()
	agg, txm := newTestAggregator(answerRepo, store)

	answerRepo.On("AggregateDailyStats", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	err := agg.Run(context.Background(), refForCivilDay(2025, 7, 27))
	require.Error(t, err)
	assert.Equal(t, 0, txm.calls)
}

// ============================================================================
// MockCacheRepo реализует repository.CacheRepository
// ============================================================================

type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}
