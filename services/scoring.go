package services

import (
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
)

// AnswerReview is the outcome of one question, for showing the user their attempt.
type AnswerReview struct {
	QuestionID   uint   `json:"question_id"`
	QuestionText string `json:"question_text"`
	Submitted    string `json:"submitted"`
	Correct      bool   `json:"correct"`
}

type QuizScore struct {
	Correct int
	Total   int
	Review  []AnswerReview
}

// ScoreQuiz marks each question by exact, case-sensitive equality with its
// correct answer. Missing answers count as wrong. The review keeps at most
// models.MaxSubmittedAnswerLength characters of each submitted answer.
func ScoreQuiz(questions []models.Question, answers map[uint]string) QuizScore {
	score := QuizScore{Total: len(questions), Review: make([]AnswerReview, 0, len(questions))}
	for _, q := range questions {
		submitted, ok := answers[q.ID]
		correct := ok && submitted == q.CorrectAnswer
		if correct {
			score.Correct++
		}
		score.Review = append(score.Review, AnswerReview{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Submitted:    truncateRunes(submitted, models.MaxSubmittedAnswerLength),
			Correct:      correct,
		})
	}
	return score
}

// QuizExperience is 2 points for finishing plus 2 per correct answer.
func QuizExperience(correct int) int {
	return QuizBaseExperience + QuizExperiencePerCorrect*correct
}
