package rankingbatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_NextFiring_BeforeBatchHour(t *testing.T) {
	s := NewScheduler(&Config{CivilOffsetHours: 9, BatchHour: 2}, nil)

	// 01:30 по гражданскому поясу - прогон сегодня в 02:00
	civil := time.FixedZone("civil", 9*3600)
	ref := time.Date(2025, 7, 28, 1, 30, 0, 0, civil)

	next := s.nextFiring(ref)
	assert.Equal(t, time.Date(2025, 7, 28, 2, 0, 0, 0, civil).UTC(), next.UTC())
}

func TestScheduler_NextFiring_AfterBatchHour(t *testing.T) {
	s := NewScheduler(&Config{CivilOffsetHours: 9, BatchHour: 2}, nil)

	civil := time.FixedZone("civil", 9*3600)
	ref := time.Date(2025, 7, 28, 2, 30, 0, 0, civil)

	next := s.nextFiring(ref)
	assert.Equal(t, time.Date(2025, 7, 29, 2, 0, 0, 0, civil).UTC(), next.UTC())
}

func TestScheduler_NextFiring_ExactlyAtBatchHour(t *testing.T) {
	s := NewScheduler(&Config{CivilOffsetHours: 9, BatchHour: 2}, nil)

	// Ровно в момент запуска следующий прогон - завтра, не немедленный повтор
	civil := time.FixedZone("civil", 9*3600)
	ref := time.Date(2025, 7, 28, 2, 0, 0, 0, civil)

	next := s.nextFiring(ref)
	assert.Equal(t, time.Date(2025, 7, 29, 2, 0, 0, 0, civil).UTC(), next.UTC())
}

func TestScheduler_NextFiring_CrossesMonthBoundary(t *testing.T) {
	s := NewScheduler(&Config{CivilOffsetHours: 0, BatchHour: 2}, nil)

	ref := time.Date(2025, 7, 31, 23, 0, 0, 0, time.UTC)
	next := s.nextFiring(ref)
	assert.Equal(t, time.Date(2025, 8, 1, 2, 0, 0, 0, time.UTC), next.UTC())
}
