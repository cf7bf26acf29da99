package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

var (
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrSelfFriendship     = errors.New("cannot befriend yourself")
)

type FriendshipRepository struct {
	DB *gorm.DB
}

// Request records a pending friendship. A pair that already exists in either
// direction is a duplicate.
func (r *FriendshipRepository) Request(ctx context.Context, requesterID, addresseeID string) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, ErrSelfFriendship
	}

	db := r.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Friendship{}).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			requesterID, addresseeID, addresseeID, requesterID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	f := &models.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.FriendshipPending,
	}
	if err := db.Create(f).Error; err != nil {
		return nil, translate(err)
	}
	return f, nil
}

// Accept marks a pending request addressed to addresseeID as accepted.
func (r *FriendshipRepository) Accept(ctx context.Context, id, addresseeID string) error {
	res := r.DB.WithContext(ctx).Model(&models.Friendship{}).
		Where("id = ? AND addressee_id = ? AND status = ?", id, addresseeID, models.FriendshipPending).
		Update("status", models.FriendshipAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

// FriendIDs returns the other side of every accepted friendship of userID.
func (r *FriendshipRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	var rows []models.Friendship
	err := r.DB.WithContext(ctx).
		Select("requester_id", "addressee_id").
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.FriendshipAccepted, userID, userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, f := range rows {
		other := f.RequesterID
		if other == userID {
			other = f.AddresseeID
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	return ids, nil
}
