package testhelpers

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/AbiralTr/Arc-Web/internal/models"
)

func TestSetupTestDBCreatesSchema(t *testing.T) {
	db := SetupTestDB(t)
	for _, table := range []any{&models.User{}, &models.Quest{}, &models.Friendship{}} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table for %T to exist", table)
		}
	}
}

func TestDropTableRemovesTable(t *testing.T) {
	db := SetupTestDB(t)
	DropTable(t, db, &models.Quest{})
	if db.Migrator().HasTable(&models.Quest{}) {
		t.Fatalf("expected quests table to be dropped")
	}
}

func TestCreateUser(t *testing.T) {
	db := SetupTestDB(t)
	u := CreateUser(t, db, "hero_1")
	if u.ID == "" || u.Level != 1 || u.IsGuest {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestSetupTestDBPanicsOnOpenFailure(t *testing.T) {
	orig := openSQLite
	defer func() { openSQLite = orig }()
	openSQLite = func(string) (*gorm.DB, error) { return nil, errors.New("boom") }

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on open failure")
		}
	}()

	SetupTestDB(t)
}

func TestSetupTestDBPanicsOnMigrateFailure(t *testing.T) {
	origMigrate := migrateSchema
	defer func() { migrateSchema = origMigrate }()
	migrateSchema = func(*gorm.DB) error { return errors.New("migrate boom") }

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on migrate failure")
		}
	}()

	SetupTestDB(t)
}

func TestDropTablePanicsOnFailure(t *testing.T) {
	db := SetupTestDB(t)
	orig := dropTableFn
	defer func() { dropTableFn = orig }()
	dropTableFn = func(*gorm.DB, any) error { return errors.New("drop fail") }

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on drop failure")
		}
	}()

	DropTable(t, db, &models.User{})
}
