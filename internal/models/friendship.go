package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
)

// Friendship links a requester to an addressee. The pair is unordered for
// leaderboard purposes; the direction only records who asked.
type Friendship struct {
	ID          string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RequesterID string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_friendship_pair" json:"requesterId"`
	AddresseeID string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_friendship_pair;index" json:"addresseeId"`
	Status      FriendshipStatus `gorm:"type:varchar(16);not null;default:PENDING" json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (f *Friendship) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
