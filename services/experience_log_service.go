package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MaxRocco/csc3094-c1016489-projectRepository/models"
	"github.com/MaxRocco/csc3094-c1016489-projectRepository/utils"
)

// ExperienceHistory lists a user's awards on one calendar day, oldest first.
func ExperienceHistory(ctx context.Context, db *gorm.DB, userID uint, day time.Time) ([]models.ExperienceLog, error) {
	start := utils.CalendarDate(day)
	var logs []models.ExperienceLog
	err := db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, start.AddDate(0, 0, 1)).
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}

func experienceOn(db *gorm.DB, userID uint, day time.Time) (int, error) {
	start := utils.CalendarDate(day)
	var total int
	err := db.Model(&models.ExperienceLog{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, start.AddDate(0, 0, 1)).
		Scan(&total).Error
	return total, err
}
