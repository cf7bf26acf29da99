package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AbiralTr/Arc-Web/internal/metrics"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
)

const DefaultBcryptCost = 12

// StandingPublisher refreshes a user's cached leaderboard row.
type StandingPublisher interface {
	PublishStanding(ctx context.Context, entry models.LeaderboardEntry) error
}

type AuthService struct {
	store      *repositories.Store
	standings  StandingPublisher
	logger     *zap.Logger
	guestTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAuthService builds the account service. standings may be nil.
func NewAuthService(store *repositories.Store, standings StandingPublisher, logger *zap.Logger, guestTTL time.Duration, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthService{
		store:      store,
		standings:  standings,
		logger:     logger,
		guestTTL:   guestTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates an account. When currentUserID names a guest, that guest
// row is upgraded in place and keeps its progress.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest, currentUserID string) (*models.User, error) {
	if err := s.checkAvailable(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if currentUserID != "" {
		current, err := s.store.Users.GetByID(ctx, currentUserID)
		switch {
		case err == nil && current.IsGuest:
			err = s.store.Users.UpgradeGuest(ctx, current.ID, req.Email, req.Username, string(hash))
			if err != nil {
				return nil, s.duplicateCause(ctx, err, req)
			}
			s.logger.Info("guest upgraded", zap.String("user_id", current.ID))
			upgraded, err := s.store.Users.GetByID(ctx, current.ID)
			if err != nil {
				return nil, err
			}
			s.publishStanding(ctx, upgraded)
			return upgraded, nil
		case err != nil && !errors.Is(err, repositories.ErrUserNotFound):
			return nil, err
		}
	}

	hashStr := string(hash)
	user := &models.User{
		Email:        &req.Email,
		Username:     &req.Username,
		PasswordHash: &hashStr,
		Level:        1,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, s.duplicateCause(ctx, err, req)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	s.publishStanding(ctx, user)
	return user, nil
}

// publishStanding is best effort; the refresh job repairs a missed update.
func (s *AuthService) publishStanding(ctx context.Context, user *models.User) {
	if s.standings == nil || user.Username == nil {
		return
	}
	entry := models.LeaderboardEntry{ID: user.ID, Username: *user.Username, Level: user.Level, XP: user.XP}
	if err := s.standings.PublishStanding(ctx, entry); err != nil {
		s.logger.Warn("failed to publish leaderboard standing",
			zap.String("user_id", user.ID),
			zap.Error(err))
	}
}

func (s *AuthService) checkAvailable(ctx context.Context, email, username string) error {
	taken, err := s.store.Users.EmailTaken(ctx, email, "")
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	taken, err = s.store.Users.UsernameTaken(ctx, username, "")
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	return nil
}

// duplicateCause names the field behind a unique violation that slipped past
// checkAvailable.
func (s *AuthService) duplicateCause(ctx context.Context, err error, req *models.RegisterRequest) error {
	if !errors.Is(err, repositories.ErrDuplicate) {
		return err
	}
	if taken, _ := s.store.Users.EmailTaken(ctx, req.Email, ""); taken {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// Login checks a username and password pair.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.store.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Me loads the account behind a verified session.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.store.Users.GetByID(ctx, userID)
}

// ProvisionGuest creates a guest and issues its token in one transaction, so
// a failed issue leaves no orphaned row.
func (s *AuthService) ProvisionGuest(ctx context.Context, issue func(userID string) (string, error)) (*models.User, string, error) {
	var (
		guest *models.User
		token string
	)
	err := s.store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		guest = models.NewGuest(s.now().UTC(), s.guestTTL)
		if err := tx.Users.Create(ctx, guest); err != nil {
			return fmt.Errorf("create guest: %w", err)
		}
		var err error
		token, err = issue(guest.ID)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	metrics.GuestProvisioned()
	s.logger.Info("guest provisioned", zap.String("user_id", guest.ID))
	return guest, token, nil
}
