package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

var (
	ErrQuestNotFound         = errors.New("quest not found")
	ErrQuestAlreadyCompleted = errors.New("quest already completed")
)

type QuestRepository struct {
	DB *gorm.DB
}

func (r *QuestRepository) Create(ctx context.Context, quest *models.Quest) error {
	return r.DB.WithContext(ctx).Create(quest).Error
}

// GetOwned returns the quest only if userID owns it.
func (r *QuestRepository) GetOwned(ctx context.Context, id, userID string) (*models.Quest, error) {
	var quest models.Quest
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&quest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quest, nil
}

// MarkCompleted moves an owned quest from pending to completed. The status
// guard lives in the UPDATE itself, so of two racing callers only one sees
// a changed row.
func (r *QuestRepository) MarkCompleted(ctx context.Context, id, userID string, at time.Time) (*models.Quest, error) {
	res := r.DB.WithContext(ctx).Model(&models.Quest{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.QuestPending).
		Updates(map[string]any{
			"status":       models.QuestCompleted,
			"completed_at": at,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	quest, err := r.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, ErrQuestAlreadyCompleted
	}
	return quest, nil
}

// RecentCompleted lists the newest completed quests of userID.
func (r *QuestRepository) RecentCompleted(ctx context.Context, userID string, limit int) ([]models.QuestActivity, error) {
	activity := []models.QuestActivity{}
	err := r.DB.WithContext(ctx).Model(&models.Quest{}).
		Select("id", "title", "stat", "xp_reward", "completed_at").
		Where("user_id = ? AND status = ? AND completed_at IS NOT NULL", userID, models.QuestCompleted).
		Order("completed_at DESC").
		Limit(limit).
		Scan(&activity).Error
	return activity, err
}

// ListPending returns the open quests of userID, newest first.
func (r *QuestRepository) ListPending(ctx context.Context, userID string, limit int) ([]models.Quest, error) {
	quests := []models.Quest{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.QuestPending).
		Order("created_at DESC").
		Limit(limit).
		Find(&quests).Error
	return quests, err
}
