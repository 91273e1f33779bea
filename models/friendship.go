package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

// Friendship is a directed request from RequesterID to RequestedID.
// PairKey is unique so only one record can exist per unordered pair.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	RequestedID uint             `gorm:"not null;index" json:"requested_id"`
	PairKey     string           `gorm:"size:41;not null;uniqueIndex" json:"-"`
	Status      FriendshipStatus `gorm:"size:10;not null;default:pending" json:"status"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// FriendshipPairKey is order independent: (a, b) and (b, a) share a key.
func FriendshipPairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	f.PairKey = FriendshipPairKey(f.RequesterID, f.RequestedID)
	if f.Status == "" {
		f.Status = FriendshipPending
	}
	return nil
}

// OtherParty returns the user on the other side of the relationship from userID.
func (f Friendship) OtherParty(userID uint) uint {
	if f.RequesterID == userID {
		return f.RequestedID
	}
	return f.RequesterID
}
