package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/handlers"
	"github.com/AbiralTr/Arc-Web/internal/session"
)

func newResolver() *session.Resolver {
	return session.NewResolver(session.NewTokenIssuer("test-secret", time.Hour), nil, false, zap.NewNop())
}

func registeredRoutes(t *testing.T, router chi.Routes) map[string]bool {
	t.Helper()
	paths := map[string]bool{}
	if err := chi.Walk(router, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		paths[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("failed walking routes: %v", err)
	}
	return paths
}

func TestAllRoutesRegistered(t *testing.T) {
	router := chi.NewRouter()
	sessions := newResolver()

	HealthRoutes(router, handlers.NewHealthHandler(nil, nil, nil))
	AuthRoutes(router, &handlers.AuthHandler{}, sessions)
	UserRoutes(router, &handlers.UserHandler{}, sessions)
	QuestRoutes(router, &handlers.QuestHandler{}, sessions)
	LeaderboardRoutes(router, &handlers.LeaderboardHandler{}, sessions)
	PageRoutes(router, &handlers.PageHandler{}, sessions)

	paths := registeredRoutes(t, router)
	expected := []string{
		"GET /health",
		"GET /healthz",
		"GET /readyz",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"POST /api/auth/logout",
		"POST /api/auth/guest",
		"GET /api/auth/me",
		"GET /api/user/me",
		"POST /api/quests/generate",
		"POST /api/quests/{id}/complete",
		"GET /api/quests/activity",
		"GET /api/leaderboard",
		"GET /",
		"GET /leaderboard",
		"GET /login",
		"GET /register",
	}
	for _, route := range expected {
		if !paths[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestAPIRoutesRequireSession(t *testing.T) {
	router := chi.NewRouter()
	sessions := newResolver()
	AuthRoutes(router, &handlers.AuthHandler{}, sessions)
	UserRoutes(router, &handlers.UserHandler{}, sessions)
	QuestRoutes(router, &handlers.QuestHandler{}, sessions)
	LeaderboardRoutes(router, &handlers.LeaderboardHandler{}, sessions)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/user/me"},
		{http.MethodPost, "/api/quests/generate"},
		{http.MethodPost, "/api/quests/abc/complete"},
		{http.MethodGet, "/api/quests/activity"},
		{http.MethodGet, "/api/leaderboard"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without a session, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestPageRoutesRedirectOnBadToken(t *testing.T) {
	router := chi.NewRouter()
	PageRoutes(router, &handlers.PageHandler{}, newResolver())

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != session.LoginPath {
		t.Fatalf("expected redirect to login, got %d", rec.Code)
	}
}
