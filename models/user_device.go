package models

import "time"

// UserDevice is a push endpoint registered for a user.
type UserDevice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_device" json:"user_id"`
	TokenHash   string    `gorm:"size:64;not null;uniqueIndex:idx_user_device" json:"-"`
	Platform    string    `gorm:"size:16" json:"platform"` // "android" | "ios"
	EndpointARN string    `gorm:"size:256" json:"endpoint_arn"`
	Enabled     bool      `gorm:"not null;default:true" json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
