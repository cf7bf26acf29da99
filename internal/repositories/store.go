package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

var ErrDuplicate = errors.New("duplicate record")

// Store groups the repositories that share one database handle. A Store
// built inside WithinTransaction routes every call through that transaction.
type Store struct {
	DB          *gorm.DB
	Users       *UserRepository
	Quests      *QuestRepository
	Friendships *FriendshipRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:          db,
		Users:       &UserRepository{DB: db},
		Quests:      &QuestRepository{DB: db},
		Friendships: &FriendshipRepository{DB: db},
	}
}

// WithinTransaction runs fn against a transactional Store. The transaction
// commits when fn returns nil and rolls back on error or panic.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Open connects to postgres or sqlite. Duplicate-key errors are translated
// to gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Quest{}, &models.Friendship{})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
