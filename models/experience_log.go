package models

import (
	"time"
)

const (
	ExperienceSourceMeal  = "meal"
	ExperienceSourceQuiz  = "quiz"
	ExperienceSourceLogin = "login"
)

// ExperienceLog is one experience award, keyed by the calendar day it was earned.
type ExperienceLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_xp_user_date;not null" json:"user_id"`
	Date      time.Time `gorm:"type:date;index:idx_xp_user_date;not null" json:"date"`
	Source    string    `gorm:"size:20;not null" json:"source"`
	RefID     uint      `json:"ref_id,omitempty"`
	Points    int       `gorm:"not null" json:"points"`
	CreatedAt time.Time `json:"created_at"`
}
