package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/AbiralTr/Arc-Web/internal/handlers"
	"github.com/AbiralTr/Arc-Web/internal/session"
)

func UserRoutes(router chi.Router, userHandler *handlers.UserHandler, sessions *session.Resolver) {
	router.With(sessions.RequireUser).Get("/api/user/me", userHandler.MeHandler)
}
