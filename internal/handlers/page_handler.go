package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/leaderboard"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/repositories"
	"github.com/AbiralTr/Arc-Web/internal/services"
	"github.com/AbiralTr/Arc-Web/internal/session"
	"github.com/AbiralTr/Arc-Web/internal/web"
)

// PageHandler serves the HTML pages. Home and leaderboard sit behind the
// page resolver, login and register are public.
type PageHandler struct {
	renderer *web.Renderer
	auth     *services.AuthService
	quests   *services.QuestService
	boards   *leaderboard.Service
	sessions *session.Resolver
	logger   *zap.Logger
}

func NewPageHandler(renderer *web.Renderer, auth *services.AuthService, quests *services.QuestService,
	boards *leaderboard.Service, sessions *session.Resolver, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		auth:     auth,
		quests:   quests,
		boards:   boards,
		sessions: sessions,
		logger:   logger,
	}
}

func pageFor(title string, viewer *models.User) web.Page {
	p := web.Page{Title: title, ShowAuthLinks: true}
	if viewer != nil {
		p.Viewer = viewer.DisplayName()
		p.ShowAuthLinks = viewer.IsGuest
	}
	return p
}

// viewer loads the resolved user. A token for a deleted user forces a fresh
// login; ok is false once the response has been written.
func (h *PageHandler) viewer(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, _ := session.UserIDFrom(r.Context())
	user, err := h.auth.Me(r.Context(), userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		h.sessions.EndSession(w)
		http.Redirect(w, r, session.LoginPath, http.StatusFound)
		return nil, false
	}
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return user, true
}

func (h *PageHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := h.viewer(w, r)
	if !ok {
		return
	}
	pending, err := h.quests.Pending(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recent, err := h.quests.RecentActivity(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, web.PageHome, web.HomePage{
		Page:    pageFor("Home", user),
		User:    services.ProgressFor(user),
		Stats:   web.StatViews(user.Stats),
		Pending: pending,
		Recent:  recent,
	})
}

func (h *PageHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := h.viewer(w, r)
	if !ok {
		return
	}
	board, err := h.boards.Board(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, web.PageLeaderboard, web.LeaderboardPage{
		Page:  pageFor("Leaderboard", user),
		Board: board,
	})
}

func (h *PageHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, web.PageLogin, pageFor("Log in", nil))
}

func (h *PageHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, web.PageRegister, pageFor("Register", nil))
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	if err := h.renderer.Render(w, http.StatusOK, page, data); err != nil {
		h.fail(w, r, err)
	}
}

func (h *PageHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("page render failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
