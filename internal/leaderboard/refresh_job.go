package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
)

const (
	DefaultRefreshSchedule = "@every 5m"
	refreshBatchSize       = 500
	refreshTimeout         = time.Minute
)

// RefreshJob periodically rebuilds the cached ranking from the database so
// missed events and registrations converge.
type RefreshJob struct {
	users    *repositories.UserRepository
	cache    *Cache
	schedule string
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewRefreshJob(users *repositories.UserRepository, cache *Cache, schedule string, logger *zap.Logger) *RefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &RefreshJob{
		users:    users,
		cache:    cache,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start schedules the rebuild and runs one immediately.
func (j *RefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.runScheduled)
	if err != nil {
		return fmt.Errorf("failed to schedule leaderboard refresh: %w", err)
	}
	j.cron.Start()
	j.logger.Info("leaderboard refresh scheduled", zap.String("schedule", j.schedule))
	go j.runScheduled()
	return nil
}

// Stop halts the scheduler and waits for a running rebuild.
func (j *RefreshJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("leaderboard refresh stopped")
	}
}

func (j *RefreshJob) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := j.RunRefresh(ctx); err != nil {
		j.logger.Warn("leaderboard refresh failed", zap.Error(err))
	}
}

// RunRefresh performs a single rebuild.
func (j *RefreshJob) RunRefresh(ctx context.Context) error {
	start := time.Now()
	total := 0
	err := j.cache.Replace(ctx, func(add func([]models.LeaderboardEntry) error) error {
		return j.users.EachBatch(ctx, refreshBatchSize, func(users []models.User) error {
			total += len(users)
			return add(toEntries(users, ""))
		})
	})
	if err != nil {
		return err
	}
	j.logger.Info("leaderboard rebuilt",
		zap.Int("users", total),
		zap.Duration("took", time.Since(start)))
	return nil
}
