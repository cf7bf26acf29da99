package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/progression"
)

const (
	RankingKey  = "leaderboard:levels"
	ProfilesKey = "leaderboard:profiles"
)

// Cache keeps the global ranking in a redis sorted set. The score is the
// level plus the fraction of the way to the next level, so a single ZREVRANGE
// orders by level and then xp.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

type profile struct {
	Username string `json:"username"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
}

// Score maps progress to a sorted-set score.
func Score(level, xp int) float64 {
	return float64(level) + progression.Fraction(level, xp)
}

// Upsert records the current progress of one user.
func (c *Cache) Upsert(ctx context.Context, e models.LeaderboardEntry) error {
	return c.write(ctx, RankingKey, ProfilesKey, []models.LeaderboardEntry{e})
}

func (c *Cache) write(ctx context.Context, rankKey, profileKey string, entries []models.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}
	pipe := c.rdb.TxPipeline()
	for _, e := range entries {
		data, err := json.Marshal(profile{Username: e.Username, Level: e.Level, XP: e.XP})
		if err != nil {
			return err
		}
		pipe.ZAdd(ctx, rankKey, redis.Z{Score: Score(e.Level, e.XP), Member: e.ID})
		pipe.HSet(ctx, profileKey, e.ID, data)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns the n highest ranked users.
func (c *Cache) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	ids, err := c.rdb.ZRevRange(ctx, RankingKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	raw, err := c.rdb.HMGet(ctx, ProfilesKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		s, ok := raw[i].(string)
		if !ok {
			return nil, fmt.Errorf("leaderboard profile missing for %s", id)
		}
		var p profile
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return nil, fmt.Errorf("decode leaderboard profile %s: %w", id, err)
		}
		entries = append(entries, models.LeaderboardEntry{ID: id, Username: p.Username, Level: p.Level, XP: p.XP})
	}
	return entries, nil
}

// Replace rebuilds the ranking from scratch. fill streams batches through add;
// the new data only becomes visible once every batch has been written.
func (c *Cache) Replace(ctx context.Context, fill func(add func([]models.LeaderboardEntry) error) error) error {
	tmpRank, tmpProfiles := RankingKey+":rebuild", ProfilesKey+":rebuild"
	if err := c.rdb.Del(ctx, tmpRank, tmpProfiles).Err(); err != nil {
		return err
	}

	written := 0
	err := fill(func(entries []models.LeaderboardEntry) error {
		written += len(entries)
		return c.write(ctx, tmpRank, tmpProfiles, entries)
	})
	if err != nil {
		_ = c.rdb.Del(ctx, tmpRank, tmpProfiles).Err()
		return err
	}

	pipe := c.rdb.TxPipeline()
	if written == 0 {
		pipe.Del(ctx, RankingKey, ProfilesKey)
	} else {
		pipe.Rename(ctx, tmpRank, RankingKey)
		pipe.Rename(ctx, tmpProfiles, ProfilesKey)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Size is the number of ranked users.
func (c *Cache) Size(ctx context.Context) (int64, error) {
	return c.rdb.ZCard(ctx, RankingKey).Result()
}
