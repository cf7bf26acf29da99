package leaderboard

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

// Subscriber applies completion events to the cached ranking.
type Subscriber struct {
	rdb        *redis.Client
	cache      *Cache
	logger     *zap.Logger
	instanceID string
}

func NewSubscriber(rdb *redis.Client, cache *Cache, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		rdb:        rdb,
		cache:      cache,
		logger:     logger,
		instanceID: uuid.New().String()[:8],
	}
}

// Run listens for completion events until ctx is done. ready, when not nil,
// is closed once the subscription is confirmed.
func (s *Subscriber) Run(ctx context.Context, ready chan<- struct{}) {
	sub := s.rdb.Subscribe(ctx, CompletedChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		s.logger.Error("leaderboard subscriber failed to subscribe", zap.Error(err))
		return
	}
	if ready != nil {
		close(ready)
	}
	s.logger.Info("leaderboard subscriber listening",
		zap.String("channel", CompletedChannel),
		zap.String("instance", s.instanceID))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg.Payload)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, payload string) {
	var event models.QuestCompletedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.Warn("failed to decode quest completion event", zap.Error(err))
		return
	}

	entry := models.LeaderboardEntry{
		ID:       event.UserID,
		Username: event.Username,
		Level:    event.Level,
		XP:       event.XP,
	}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		s.logger.Warn("failed to update leaderboard cache",
			zap.String("user_id", event.UserID),
			zap.Error(err))
		return
	}
	s.logger.Debug("leaderboard updated",
		zap.String("instance", s.instanceID),
		zap.String("user_id", event.UserID),
		zap.Int("level", event.Level))
}
