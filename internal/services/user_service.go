package services

import (
	"context"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/progression"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
)

type UserService struct {
	store *repositories.Store
}

func NewUserService(store *repositories.Store) *UserService {
	return &UserService{store: store}
}

// Progress returns the player card with the xp needed for the next level.
func (s *UserService) Progress(ctx context.Context, userID string) (*models.UserProgress, error) {
	u, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ProgressFor(u), nil
}

// ProgressFor builds the player card of an already loaded user.
func ProgressFor(u *models.User) *models.UserProgress {
	return &models.UserProgress{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Level:    u.Level,
		XP:       u.XP,
		Stats:    u.Stats,
		XPToNext: progression.XPToNextLevel(u.Level),
	}
}
