package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

func TestScoreQuiz(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "q1", CorrectAnswer: "Carolina Reaper"},
		{ID: 2, Text: "q2", CorrectAnswer: "Green, Red, Yellow, and Orange"},
		{ID: 3, Text: "q3", CorrectAnswer: "Tofu"},
	}

	tests := []struct {
		name    string
		answers map[uint]string
		correct int
	}{
		{"all correct", map[uint]string{1: "Carolina Reaper", 2: "Green, Red, Yellow, and Orange", 3: "Tofu"}, 3},
		{"none submitted", nil, 0},
		{"case sensitive", map[uint]string{1: "carolina reaper", 3: "Tofu"}, 1},
		{"no whitespace trimming", map[uint]string{3: " Tofu"}, 0},
		{"unknown question ids ignored", map[uint]string{99: "Tofu", 1: "Carolina Reaper"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreQuiz(questions, tt.answers)
			assert.Equal(t, tt.correct, score.Correct)
			assert.Equal(t, 3, score.Total)
			assert.Len(t, score.Review, 3)
		})
	}
}

func TestScoreQuiz_ReviewFollowsQuestionOrder(t *testing.T) {
	questions := []models.Question{
		{ID: 7, Text: "first", CorrectAnswer: "a"},
		{ID: 3, Text: "second", CorrectAnswer: "b"},
	}
	score := ScoreQuiz(questions, map[uint]string{3: "b", 7: "x"})
	assert.Equal(t, []AnswerReview{
		{QuestionID: 7, QuestionText: "first", Submitted: "x", Correct: false},
		{QuestionID: 3, QuestionText: "second", Submitted: "b", Correct: true},
	}, score.Review)
}

func TestScoreQuiz_LongAnswerIsWrongAndCapped(t *testing.T) {
	questions := []models.Question{{ID: 1, Text: "q1", CorrectAnswer: "Tofu"}}
	score := ScoreQuiz(questions, map[uint]string{1: strings.Repeat("a", 300)})
	assert.Equal(t, 0, score.Correct)
	assert.False(t, score.Review[0].Correct)
	assert.Len(t, score.Review[0].Submitted, models.MaxSubmittedAnswerLength)
}

func TestQuizExperience(t *testing.T) {
	assert.Equal(t, 2, QuizExperience(0))
	assert.Equal(t, 8, QuizExperience(3))
	assert.Equal(t, 12, QuizExperience(5))
}
