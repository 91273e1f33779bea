package models

import "time"

// Post is a reflection written after cooking a meal. Append-only.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	MealID        *uint     `gorm:"index" json:"meal_id,omitempty"`
	Title         string    `gorm:"size:100;not null" json:"title"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	Public        bool      `gorm:"not null;default:false" json:"public"`
	PhotoURL      string    `gorm:"size:512" json:"photo_url,omitempty"`
	PhotoVerified bool      `gorm:"not null;default:false" json:"photo_verified"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
