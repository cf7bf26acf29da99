package leaderboard

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

const CompletedChannel = "quest_completed"

// Publisher announces committed completions on redis pub/sub.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) PublishQuestCompleted(ctx context.Context, event *models.QuestCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, CompletedChannel, payload).Err()
}

// PublishStanding announces a user's current level and xp outside of a
// completion, e.g. when a guest registers under a real username.
func (p *Publisher) PublishStanding(ctx context.Context, entry models.LeaderboardEntry) error {
	return p.PublishQuestCompleted(ctx, &models.QuestCompletedEvent{
		UserID:   entry.ID,
		Username: entry.Username,
		Level:    entry.Level,
		XP:       entry.XP,
	})
}
