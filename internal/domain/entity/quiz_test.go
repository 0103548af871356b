package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuiz_ApplyAnswer_UpdatesCounts(t *testing.T) {
	quiz := &Quiz{Difficulty: "A"}

	quiz.ApplyAnswer(true)
	quiz.ApplyAnswer(false)

	assert.Equal(t, 1, quiz.CorrectCount)
	assert.Equal(t, 1, quiz.WrongCount)
}

func TestQuiz_ApplyAnswer_DifficultyBands(t *testing.T) {
	// 1/4 правильных = 25% -> A
	quiz := &Quiz{CorrectCount: 0, WrongCount: 3}
	quiz.ApplyAnswer(true)
	assert.Equal(t, "A", quiz.Difficulty)

	// 5/10 = 50% -> B
	quiz = &Quiz{CorrectCount: 4, WrongCount: 5}
	quiz.ApplyAnswer(true)
	assert.Equal(t, "B", quiz.Difficulty)

	// 9/10 = 90% -> C (граница включительно)
	quiz = &Quiz{CorrectCount: 8, WrongCount: 1}
	quiz.ApplyAnswer(true)
	assert.Equal(t, "C", quiz.Difficulty)

	// 10/10 = 100% -> D
	quiz = &Quiz{CorrectCount: 9, WrongCount: 0}
	quiz.ApplyAnswer(true)
	assert.Equal(t, "D", quiz.Difficulty)
}
