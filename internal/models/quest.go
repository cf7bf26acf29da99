package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestStatus string

const (
	QuestPending   QuestStatus = "pending"
	QuestCompleted QuestStatus = "completed"
)

// Quest is a generated task owned by exactly one user.
type Quest struct {
	ID          string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string      `gorm:"type:varchar(36);not null;index" json:"userId"`
	Stat        Stat        `gorm:"type:varchar(8);not null" json:"stat"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Difficulty  int         `gorm:"not null" json:"difficulty"`
	XPReward    int         `gorm:"column:xp_reward;not null" json:"xpReward"`
	Tags        []string    `gorm:"serializer:json;type:text" json:"tags"`
	Status      QuestStatus `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	CompletedAt *time.Time  `gorm:"index" json:"completedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (q *Quest) BeforeCreate(*gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Status == "" {
		q.Status = QuestPending
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return nil
}

// QuestActivity is the short form listed in the recent activity feed.
type QuestActivity struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Stat        Stat       `json:"stat"`
	XPReward    int        `json:"xpReward"`
	CompletedAt *time.Time `json:"completedAt"`
}
