package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
	"github.com/AbiralTr/Arc-Web/internal/testhelpers"
)

func newAuthService(t *testing.T) (*AuthService, *repositories.Store) {
	t.Helper()
	store := repositories.NewStore(testhelpers.SetupTestDB(t))
	return NewAuthService(store, nil, zap.NewNop(), 7*24*time.Hour, bcrypt.MinCost), store
}

func registerReq(email, username string) *models.RegisterRequest {
	return &models.RegisterRequest{Email: email, Username: username, Password: "password123"}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerReq("a@example.com", "alice"), "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.IsGuest || u.Username == nil || *u.Username != "alice" || u.PasswordHash == nil {
		t.Fatalf("unexpected user %+v", u)
	}
	if *u.PasswordHash == "password123" {
		t.Fatalf("password stored in clear")
	}

	got, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "password123"})
	if err != nil || got.ID != u.ID {
		t.Fatalf("Login = %+v, %v", got, err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterConflicts(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, registerReq("a@example.com", "alice"), ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Register(ctx, registerReq("a@example.com", "other"), ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, registerReq("b@example.com", "alice"), ""); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterUpgradesGuestInPlace(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	guest, _, err := svc.ProvisionGuest(ctx, func(id string) (string, error) { return "tok-" + id, nil })
	if err != nil {
		t.Fatalf("ProvisionGuest: %v", err)
	}
	guest.XP, guest.Str = 40, 3
	if err := store.Users.SaveProgress(ctx, guest); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	u, err := svc.Register(ctx, registerReq("g@example.com", "graduate"), guest.ID)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID != guest.ID || u.IsGuest || u.GuestExpiresAt != nil {
		t.Fatalf("expected guest row upgraded in place, got %+v", u)
	}
	if u.XP != 40 || u.Str != 3 {
		t.Fatalf("guest progress lost: %+v", u)
	}

	var count int64
	store.DB.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single user row, got %d", count)
	}
}

type recordingStandings struct {
	entries []models.LeaderboardEntry
	err     error
}

func (r *recordingStandings) PublishStanding(_ context.Context, entry models.LeaderboardEntry) error {
	r.entries = append(r.entries, entry)
	return r.err
}

func TestRegisterPublishesStanding(t *testing.T) {
	store := repositories.NewStore(testhelpers.SetupTestDB(t))
	standings := &recordingStandings{}
	svc := NewAuthService(store, standings, zap.NewNop(), 7*24*time.Hour, bcrypt.MinCost)
	ctx := context.Background()

	guest, _, err := svc.ProvisionGuest(ctx, func(id string) (string, error) { return "tok-" + id, nil })
	if err != nil {
		t.Fatalf("ProvisionGuest: %v", err)
	}
	if len(standings.entries) != 0 {
		t.Fatalf("guests must not be announced, got %+v", standings.entries)
	}
	guest.Level, guest.XP = 4, 90
	if err := store.Users.SaveProgress(ctx, guest); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	if _, err := svc.Register(ctx, registerReq("g@example.com", "graduate"), guest.ID); err != nil {
		t.Fatalf("Register upgrade: %v", err)
	}
	fresh, err := svc.Register(ctx, registerReq("n@example.com", "newcomer"), "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	want := []models.LeaderboardEntry{
		{ID: guest.ID, Username: "graduate", Level: 4, XP: 90},
		{ID: fresh.ID, Username: "newcomer", Level: 1, XP: 0},
	}
	if len(standings.entries) != len(want) {
		t.Fatalf("expected %d standings, got %+v", len(want), standings.entries)
	}
	for i := range want {
		if standings.entries[i] != want[i] {
			t.Fatalf("standing %d = %+v, want %+v", i, standings.entries[i], want[i])
		}
	}
}

func TestRegisterSucceedsWhenStandingPublishFails(t *testing.T) {
	store := repositories.NewStore(testhelpers.SetupTestDB(t))
	standings := &recordingStandings{err: errors.New("redis down")}
	svc := NewAuthService(store, standings, zap.NewNop(), 7*24*time.Hour, bcrypt.MinCost)

	if _, err := svc.Register(context.Background(), registerReq("a@example.com", "alice"), ""); err != nil {
		t.Fatalf("Register should ignore publish failures, got %v", err)
	}
	if len(standings.entries) != 1 {
		t.Fatalf("expected one publish attempt, got %d", len(standings.entries))
	}
}

func TestRegisterWithRegisteredSessionCreatesNewRow(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	first, err := svc.Register(ctx, registerReq("a@example.com", "alice"), "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, err := svc.Register(ctx, registerReq("b@example.com", "bob"), first.ID)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("registered accounts must not be overwritten")
	}
}

func TestProvisionGuest(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, tokA, err := svc.ProvisionGuest(ctx, func(id string) (string, error) { return "tok-" + id, nil })
	if err != nil {
		t.Fatalf("ProvisionGuest: %v", err)
	}
	b, tokB, err := svc.ProvisionGuest(ctx, func(id string) (string, error) { return "tok-" + id, nil })
	if err != nil {
		t.Fatalf("ProvisionGuest: %v", err)
	}
	if a.ID == b.ID || tokA == tokB {
		t.Fatalf("expected distinct guests")
	}
	if !a.IsGuest || a.GuestExpiresAt == nil || !a.GuestExpiresAt.Equal(now.Add(7*24*time.Hour)) {
		t.Fatalf("unexpected guest %+v", a)
	}

	_, _, err = svc.ProvisionGuest(ctx, func(string) (string, error) { return "", errors.New("sign failed") })
	if err == nil {
		t.Fatalf("expected issue failure to surface")
	}
	var count int64
	store.DB.Model(&models.User{}).Count(&count)
	if count != 2 {
		t.Fatalf("failed provisioning must not leave a row, have %d", count)
	}
}

func TestMeAndProgress(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()
	u := testhelpers.CreateUser(t, store.DB, "hero_1")
	u.Level = 3
	_ = store.Users.SaveProgress(ctx, u)

	got, err := svc.Me(ctx, u.ID)
	if err != nil || got.ID != u.ID {
		t.Fatalf("Me = %+v, %v", got, err)
	}
	if _, err := svc.Me(ctx, "missing"); !errors.Is(err, repositories.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	progress, err := NewUserService(store).Progress(ctx, u.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Level != 3 || progress.XPToNext != 225 {
		t.Fatalf("unexpected progress %+v", progress)
	}
}

func TestNewAuthServiceDefaultsCost(t *testing.T) {
	svc := NewAuthService(nil, nil, zap.NewNop(), time.Hour, 0)
	if svc.bcryptCost != DefaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", DefaultBcryptCost, svc.bcryptCost)
	}
}
