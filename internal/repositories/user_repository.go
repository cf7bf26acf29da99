package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(r.DB.WithContext(ctx), "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(r.DB.WithContext(ctx), "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(r.DB.WithContext(ctx), "email = ?", email)
}

// GetForUpdate reads the user row and, on postgres, holds a row lock until
// the surrounding transaction ends.
func (r *UserRepository) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	db := r.DB.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(db, "id = ?", id)
}

func (r *UserRepository) first(db *gorm.DB, query string, args ...any) (*models.User, error) {
	var user models.User
	err := db.Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailTaken reports whether another user already holds email.
func (r *UserRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	return r.taken(ctx, "email = ?", email, exceptID)
}

// UsernameTaken reports whether another user already holds username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	return r.taken(ctx, "username = ?", username, exceptID)
}

func (r *UserRepository) taken(ctx context.Context, query, value, exceptID string) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where(query, value)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveProgress writes level, xp and the five stats of user.
func (r *UserRepository) SaveProgress(ctx context.Context, user *models.User) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"level":     user.Level,
			"xp":        user.XP,
			"strength":  user.Str,
			"intellect": user.Int,
			"endurance": user.End,
			"charisma":  user.Cha,
			"wisdom":    user.Wis,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpgradeGuest turns a guest row into a registered account in place.
func (r *UserRepository) UpgradeGuest(ctx context.Context, id, email, username, passwordHash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_guest = ?", id, true).
		Updates(map[string]any{
			"email":            email,
			"username":         username,
			"password_hash":    passwordHash,
			"is_guest":         false,
			"guest_expires_at": nil,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TopByLevel returns the highest ranked users, level then xp descending.
func (r *UserRepository) TopByLevel(ctx context.Context, limit int) ([]models.User, error) {
	users := []models.User{}
	err := r.DB.WithContext(ctx).
		Order("level DESC").Order("xp DESC").Order("created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// EachBatch walks every user in id order, size rows at a time.
func (r *UserRepository) EachBatch(ctx context.Context, size int, fn func([]models.User) error) error {
	var batch []models.User
	return r.DB.WithContext(ctx).
		Select("id", "username", "level", "xp").
		FindInBatches(&batch, size, func(*gorm.DB, int) error {
			return fn(batch)
		}).Error
}
