package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/services"
	"github.com/AbiralTr/Arc-Web/internal/session"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// MeHandler returns the player card with xp needed for the next level.
func (h *UserHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.UserIDFrom(r.Context())
	progress, err := h.users.Progress(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, userEnvelope{User: progress})
}
