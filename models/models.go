// Package models holds the gorm schema of the application.
package models

// All lists every model for migrations, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Meal{},
		&UserMeal{},
		&Quiz{},
		&Question{},
		&UserQuiz{},
		&UserQuizAnswer{},
		&Friendship{},
		&Post{},
		&Notification{},
		&UserDevice{},
		&ExperienceLog{},
	}
}
