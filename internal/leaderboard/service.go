// Package leaderboard ranks players globally and among friends.
package leaderboard

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
)

const TopSize = 20

// Board is what the leaderboard page and API render.
type Board struct {
	Users   []models.LeaderboardEntry `json:"users"`
	Friends []models.LeaderboardEntry `json:"friends"`
}

type Service struct {
	store  *repositories.Store
	cache  *Cache
	logger *zap.Logger
}

// NewService builds the leaderboard reader. cache may be nil, in which case
// every read goes to the database.
func NewService(store *repositories.Store, cache *Cache, logger *zap.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// Board returns the global top list and the friends list of userID.
func (s *Service) Board(ctx context.Context, userID string) (*Board, error) {
	top, err := s.Top(ctx)
	if err != nil {
		return nil, err
	}
	friends, err := s.Friends(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range top {
		top[i].IsSelf = top[i].ID == userID
	}
	return &Board{Users: top, Friends: friends}, nil
}

// Top returns the TopSize highest users, from the cache when it is usable.
func (s *Service) Top(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if s.cache != nil {
		entries, err := s.cache.Top(ctx, TopSize)
		switch {
		case err != nil:
			s.logger.Warn("leaderboard cache read failed, using database", zap.Error(err))
		case len(entries) > 0:
			return entries, nil
		}
	}

	users, err := s.store.Users.TopByLevel(ctx, TopSize)
	if err != nil {
		return nil, err
	}
	return toEntries(users, ""), nil
}

// Friends lists userID and every accepted friend, highest level first.
func (s *Service) Friends(ctx context.Context, userID string) ([]models.LeaderboardEntry, error) {
	ids, err := s.store.Friendships.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.store.Users.ListByIDs(ctx, append(ids, userID))
	if err != nil {
		return nil, err
	}
	entries := toEntries(users, userID)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Level != entries[j].Level {
			return entries[i].Level > entries[j].Level
		}
		return entries[i].XP > entries[j].XP
	})
	return entries, nil
}

func toEntries(users []models.User, selfID string) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, entryFor(&users[i], selfID))
	}
	return entries
}

func entryFor(u *models.User, selfID string) models.LeaderboardEntry {
	return models.LeaderboardEntry{
		ID:       u.ID,
		Username: u.DisplayName(),
		Level:    u.Level,
		XP:       u.XP,
		IsSelf:   selfID != "" && u.ID == selfID,
	}
}
