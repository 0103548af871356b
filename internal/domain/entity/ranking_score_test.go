package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankingScore_Accuracy_Rounding(t *testing.T) {
	// round(33.33) = 33
	score := &RankingScore{CorrectAnswers: 1, TotalAttempts: 3}
	assert.Equal(t, 33, score.Accuracy())

	// round(66.67) = 67
	score = &RankingScore{CorrectAnswers: 2, TotalAttempts: 3}
	assert.Equal(t, 67, score.Accuracy())

	score = &RankingScore{CorrectAnswers: 1, TotalAttempts: 2}
	assert.Equal(t, 50, score.Accuracy())

	score = &RankingScore{CorrectAnswers: 3, TotalAttempts: 3}
	assert.Equal(t, 100, score.Accuracy())
}

func TestRankingScore_Accuracy_NoAttempts(t *testing.T) {
	score := &RankingScore{CorrectAnswers: 0, TotalAttempts: 0}
	assert.Equal(t, 0, score.Accuracy())
}

func TestDailyUserStat_Score(t *testing.T) {
	stat := DailyUserStat{Points: 10, BonusPoints: 5}
	assert.Equal(t, 15, stat.Score())

	stat = DailyUserStat{}
	assert.Equal(t, 0, stat.Score())
}
