package models

import (
	"time"
)

// Meal is one recipe in the meal tree. Seeded, read-only at runtime.
type Meal struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description  string      `gorm:"type:text;not null" json:"description"`
	Recipe       string      `gorm:"type:text;not null" json:"recipe"`
	Instructions string      `gorm:"type:text;not null" json:"instructions"`
	Difficulty   int         `gorm:"not null;default:1;index" json:"difficulty"`
	ImageURL     string      `gorm:"size:255" json:"image_url,omitempty"`
	Allergens    AllergenSet `gorm:"not null;default:0" json:"allergens"`
	VeganCO2Kg   *float64    `json:"vegan_co2_kg,omitempty"`
	MeatCO2Kg    *float64    `json:"meat_co2_kg,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// CO2SavedKg is the saving against the meat equivalent, nil unless both figures are known.
func (m Meal) CO2SavedKg() *float64 {
	if m.VeganCO2Kg == nil || m.MeatCO2Kg == nil {
		return nil
	}
	saved := *m.MeatCO2Kg - *m.VeganCO2Kg
	return &saved
}

// UserMeal records one user's completion of one meal. Its existence with
// Completed set means the meal award has been granted.
type UserMeal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_meal" json:"user_id"`
	MealID      uint       `gorm:"not null;uniqueIndex:idx_user_meal" json:"meal_id"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
