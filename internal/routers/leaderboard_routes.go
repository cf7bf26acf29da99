package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/AbiralTr/Arc-Web/internal/handlers"
	"github.com/AbiralTr/Arc-Web/internal/session"
)

func LeaderboardRoutes(router chi.Router, boardHandler *handlers.LeaderboardHandler, sessions *session.Resolver) {
	router.With(sessions.RequireUser).Get("/api/leaderboard", boardHandler.BoardHandler)
}
