package models

import "time"

// QuestCompletedEvent is published after a completion commits.
type QuestCompletedEvent struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	QuestID      string    `json:"questId"`
	Stat         Stat      `json:"stat"`
	GainedXP     int       `json:"gainedXp"`
	Level        int       `json:"level"`
	XP           int       `json:"xp"`
	LevelsGained int       `json:"levelsGained"`
	CompletedAt  time.Time `json:"completedAt"`
}
