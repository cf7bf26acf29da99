package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestDisplayName is shown wherever a guest has no username yet.
const GuestDisplayName = "Guest"

// User is a registered player or an auto-provisioned guest.
type User struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email          *string    `gorm:"uniqueIndex" json:"email"`
	Username       *string    `gorm:"uniqueIndex" json:"username"`
	PasswordHash   *string    `json:"-"`
	IsGuest        bool       `gorm:"not null;default:false" json:"isGuest"`
	GuestExpiresAt *time.Time `json:"guestExpiresAt"`
	Level          int        `gorm:"not null;default:1" json:"level"`
	XP             int        `gorm:"column:xp;not null;default:0" json:"xp"`
	Stats          `gorm:"embedded"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`
}

// BeforeCreate assigns an opaque id and the starting level.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Level < 1 {
		u.Level = 1
	}
	return nil
}

// DisplayName returns the username, or a placeholder for guests.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return GuestDisplayName
}

// NewGuest builds an unsaved guest row that lapses after ttl.
func NewGuest(now time.Time, ttl time.Duration) *User {
	expires := now.Add(ttl)
	return &User{
		IsGuest:        true,
		GuestExpiresAt: &expires,
		Level:          1,
	}
}
