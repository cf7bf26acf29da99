package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/AbiralTr/Arc-Web/internal/leaderboard"
	"github.com/AbiralTr/Arc-Web/internal/session"
	"github.com/AbiralTr/Arc-Web/internal/utils"
)

type LeaderboardHandler struct {
	boards *leaderboard.Service
	logger *zap.Logger
}

func NewLeaderboardHandler(boards *leaderboard.Service, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{boards: boards, logger: logger}
}

func (h *LeaderboardHandler) BoardHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := session.UserIDFrom(r.Context())
	board, err := h.boards.Board(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, board)
}
