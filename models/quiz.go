package models

import (
	"time"

	"gorm.io/datatypes"
)

type Quiz struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	DisplayOrder int       `gorm:"not null;default:1;index" json:"display_order"`
	ImageURL     string    `gorm:"size:255" json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Question struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	QuizID        uint                        `gorm:"not null;index" json:"quiz_id"`
	Position      int                         `gorm:"not null;default:0" json:"position"`
	Text          string                      `gorm:"type:text;not null" json:"text"`
	CorrectAnswer string                      `gorm:"size:100;not null" json:"-"`
	OtherOptions  datatypes.JSONSlice[string] `json:"-"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// UserQuiz records a user's first and only scored attempt at a quiz.
type UserQuiz struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_user_quiz" json:"user_id"`
	QuizID         uint       `gorm:"not null;uniqueIndex:idx_user_quiz" json:"quiz_id"`
	Completed      bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CorrectCount   int        `gorm:"not null;default:0" json:"correct_count"`
	TotalQuestions int        `gorm:"not null;default:0" json:"total_questions"`
	ExpAwarded     int        `gorm:"not null;default:0" json:"exp_awarded"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MaxSubmittedAnswerLength is the stored width of UserQuizAnswer.Submitted.
const MaxSubmittedAnswerLength = 255

// UserQuizAnswer is one submitted answer of a scored attempt.
type UserQuizAnswer struct {
	ID         uint   `gorm:"primaryKey"`
	UserQuizID uint   `gorm:"not null;index"`
	QuestionID uint   `gorm:"not null"`
	Submitted  string `gorm:"size:255"`
	Correct    bool   `gorm:"not null"`
}
