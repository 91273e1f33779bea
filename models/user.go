package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	Email               string      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName           string      `gorm:"size:50;not null" json:"first_name"`
	LastName            string      `gorm:"size:50;not null" json:"last_name"`
	Password            string      `gorm:"size:100;not null" json:"-"`
	Role                string      `gorm:"size:20;not null;default:user" json:"role"`
	CompletedOnboarding bool        `gorm:"not null;default:false" json:"completed_onboarding"`
	ExperiencePoints    int         `gorm:"not null;default:0" json:"experience_points"`
	MealsCompleted      int         `gorm:"not null;default:0" json:"meals_completed"`
	QuizzesCompleted    int         `gorm:"not null;default:0" json:"quizzes_completed"`
	LastLogin           *time.Time  `gorm:"type:date" json:"last_login,omitempty"`
	Streak              int         `gorm:"not null;default:0" json:"streak"`
	LongestStreak       int         `gorm:"not null;default:0" json:"longest_streak"`
	Allergies           AllergenSet `gorm:"not null;default:0" json:"allergies"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Level is derived from experience: every 100 points is one level.
func (u User) Level() int {
	return u.ExperiencePoints/100 + 1
}
