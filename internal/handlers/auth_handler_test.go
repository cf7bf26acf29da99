package handlers

import (
	"net/http"
	"testing"

	"github.com/AbiralTr/Arc-Web/internal/middleware"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/testhelpers"
)

type authBody struct {
	User struct {
		ID             string  `json:"id"`
		Email          *string `json:"email"`
		Username       *string `json:"username"`
		IsGuest        bool    `json:"isGuest"`
		GuestExpiresAt *string `json:"guestExpiresAt"`
		CreatedAt      string  `json:"createdAt"`
	} `json:"user"`
}

func (f *fixture) register() http.Handler {
	return middleware.ValidateRequest[*models.RegisterRequest]()(http.HandlerFunc(f.auth.RegisterHandler))
}

func (f *fixture) login() http.Handler {
	return middleware.ValidateRequest[*models.LoginRequest]()(http.HandlerFunc(f.auth.LoginHandler))
}

func validRegistration() map[string]string {
	return map[string]string{"email": "ada@example.com", "username": "ada_l", "password": "correct horse"}
}

func TestRegisterCreatesAccountAndSession(t *testing.T) {
	f := newFixture(t)

	rec := serve(f.register(), jsonRequest(http.MethodPost, "/api/auth/register", validRegistration()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("expected http-only session cookie, got %+v", cookie)
	}

	body := decode[authBody](t, rec)
	if body.User.ID == "" || body.User.Username == nil || *body.User.Username != "ada_l" {
		t.Fatalf("unexpected user %+v", body.User)
	}
	userID, err := f.tokens.Verify(cookie.Value)
	if err != nil || userID != body.User.ID {
		t.Fatalf("cookie should identify the new user, got %q (%v)", userID, err)
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	cases := map[string]any{
		"short username": map[string]string{"email": "a@example.com", "username": "ab", "password": "long enough"},
		"bad email":      map[string]string{"email": "nope", "username": "abc", "password": "long enough"},
		"short password": map[string]string{"email": "a@example.com", "username": "abc", "password": "short"},
		"malformed json": `{"email":`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(f.register(), jsonRequest(http.MethodPost, "/api/auth/register", payload))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if msg := errorMessage(t, rec); msg != "Invalid input" {
				t.Fatalf("unexpected message %q", msg)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	testhelpers.CreateUser(t, f.store.DB, "taken_name")

	payload := validRegistration()
	payload["email"] = "taken_name@example.com"
	rec := serve(f.register(), jsonRequest(http.MethodPost, "/api/auth/register", payload))
	if rec.Code != http.StatusConflict || errorMessage(t, rec) != "Email already in use" {
		t.Fatalf("expected email conflict, got %d", rec.Code)
	}

	payload = validRegistration()
	payload["username"] = "taken_name"
	rec = serve(f.register(), jsonRequest(http.MethodPost, "/api/auth/register", payload))
	if rec.Code != http.StatusConflict || errorMessage(t, rec) != "Username already in use" {
		t.Fatalf("expected username conflict, got %d", rec.Code)
	}
}

func TestRegisterUpgradesGuestInPlace(t *testing.T) {
	f := newFixture(t)
	guestRec := serve(http.HandlerFunc(f.auth.GuestHandler), jsonRequest(http.MethodPost, "/api/auth/guest", nil))
	guest := decode[authBody](t, guestRec)

	req := asUser(jsonRequest(http.MethodPost, "/api/auth/register", validRegistration()), guest.User.ID)
	rec := serve(f.register(), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[authBody](t, rec).User.ID; got != guest.User.ID {
		t.Fatalf("expected guest %s to be upgraded, got new user %s", guest.User.ID, got)
	}

	upgraded, err := f.store.Users.GetByID(req.Context(), guest.User.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if upgraded.IsGuest || upgraded.GuestExpiresAt != nil {
		t.Fatalf("guest flags should be cleared, got %+v", upgraded)
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	serve(f.register(), jsonRequest(http.MethodPost, "/api/auth/register", validRegistration()))

	rec := serve(f.login(), jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"username": "ada_l", "password": "correct horse"}))
	if rec.Code != http.StatusOK || sessionCookie(rec) == nil {
		t.Fatalf("expected login with cookie, got %d", rec.Code)
	}

	for _, creds := range []map[string]string{
		{"username": "ada_l", "password": "wrong horse"},
		{"username": "nobody", "password": "correct horse"},
	} {
		rec = serve(f.login(), jsonRequest(http.MethodPost, "/api/auth/login", creds))
		if rec.Code != http.StatusUnauthorized || errorMessage(t, rec) != "Invalid credentials" {
			t.Fatalf("expected 401 Invalid credentials for %v, got %d", creds, rec.Code)
		}
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newFixture(t)
	rec := serve(http.HandlerFunc(f.auth.LogoutHandler), jsonRequest(http.MethodPost, "/api/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookie)
	}
	if body := decode[map[string]bool](t, rec); !body["ok"] {
		t.Fatal("expected ok:true")
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	u := testhelpers.CreateUser(t, f.store.DB, "mira")

	rec := serve(http.HandlerFunc(f.auth.MeHandler), asUser(jsonRequest(http.MethodGet, "/api/auth/me", nil), u.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode[authBody](t, rec); body.User.ID != u.ID || body.User.IsGuest {
		t.Fatalf("unexpected body %+v", body.User)
	}

	rec = serve(http.HandlerFunc(f.auth.MeHandler), asUser(jsonRequest(http.MethodGet, "/api/auth/me", nil), "deleted-user"))
	if rec.Code != http.StatusUnauthorized || errorMessage(t, rec) != "Not logged in" {
		t.Fatalf("expected 401 for vanished user, got %d", rec.Code)
	}
}

func TestGuestProvisionsNewIdentity(t *testing.T) {
	f := newFixture(t)
	first := serve(http.HandlerFunc(f.auth.GuestHandler), jsonRequest(http.MethodPost, "/api/auth/guest", nil))
	second := serve(http.HandlerFunc(f.auth.GuestHandler), jsonRequest(http.MethodPost, "/api/auth/guest", nil))

	a, b := decode[authBody](t, first), decode[authBody](t, second)
	if !a.User.IsGuest || a.User.GuestExpiresAt == nil {
		t.Fatalf("expected guest with expiry, got %+v", a.User)
	}
	if a.User.ID == b.User.ID {
		t.Fatal("each call should create a distinct guest")
	}
	if sessionCookie(first) == nil {
		t.Fatal("expected guest session cookie")
	}
}
