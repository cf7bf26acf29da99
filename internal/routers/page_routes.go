package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/AbiralTr/Arc-Web/internal/handlers"
	"github.com/AbiralTr/Arc-Web/internal/session"
)

// PageRoutes registers the HTML pages. Player pages provision a guest for
// first-time visitors.
func PageRoutes(router chi.Router, pageHandler *handlers.PageHandler, sessions *session.Resolver) {
	router.Group(func(r chi.Router) {
		r.Use(sessions.RequirePageUser)
		r.Get("/", pageHandler.HomeHandler)
		r.Get("/leaderboard", pageHandler.LeaderboardHandler)
	})
	router.Get("/login", pageHandler.LoginHandler)
	router.Get("/register", pageHandler.RegisterHandler)
}
