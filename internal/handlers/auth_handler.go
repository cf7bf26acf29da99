package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/middleware"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/services"
	"github.com/AbiralTr/Arc-Web/internal/session"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	auth     *services.AuthService
	sessions *session.Resolver
	logger   *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, sessions *session.Resolver, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

type accountView struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email"`
	Username  *string   `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionView struct {
	ID             string     `json:"id"`
	Email          *string    `json:"email"`
	Username       *string    `json:"username"`
	IsGuest        bool       `json:"isGuest"`
	GuestExpiresAt *time.Time `json:"guestExpiresAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type guestView struct {
	ID             string     `json:"id"`
	IsGuest        bool       `json:"isGuest"`
	GuestExpiresAt *time.Time `json:"guestExpiresAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type userEnvelope struct {
	User any `json:"user"`
}

func newAccountView(u *models.User) accountView {
	return accountView{ID: u.ID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)
	currentUserID, _ := session.UserIDFrom(r.Context())

	user, err := h.auth.Register(r.Context(), req, currentUserID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.sessions.StartSession(w, user.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, userEnvelope{User: newAccountView(user)})
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.sessions.StartSession(w, user.ID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, userEnvelope{User: newAccountView(user)})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.EndSession(w)
	utils.JSON(w, http.StatusOK, utils.OK)
}

// MeHandler reports the session's account. A token whose user row is gone
// counts as logged out.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.UserIDFrom(r.Context())
	user, err := h.auth.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, userEnvelope{User: sessionView{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		IsGuest:        user.IsGuest,
		GuestExpiresAt: user.GuestExpiresAt,
		CreatedAt:      user.CreatedAt,
	}})
}

func (h *AuthHandler) GuestHandler(w http.ResponseWriter, r *http.Request) {
	guest, err := h.sessions.ProvisionGuest(r.Context(), w)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, userEnvelope{User: guestView{
		ID:             guest.ID,
		IsGuest:        guest.IsGuest,
		GuestExpiresAt: guest.GuestExpiresAt,
		CreatedAt:      guest.CreatedAt,
	}})
}
