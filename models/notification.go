package models

import "time"

const (
	NotificationFriendRequest  = "friend_request.received"
	NotificationFriendAccepted = "friend_request.accepted"
)

// Notification is an in-app message for a user, also fanned out to websocket and push.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Kind      string    `gorm:"size:40;not null" json:"kind"`
	Message   string    `gorm:"type:text" json:"message"`
	ActorID   *uint     `json:"actor_id,omitempty"`
	RefID     uint      `json:"ref_id,omitempty"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
