package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/AbiralTr/Arc-Web/internal/handlers"
	"github.com/AbiralTr/Arc-Web/internal/middleware"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/session"
)

func AuthRoutes(router chi.Router, authHandler *handlers.AuthHandler, sessions *session.Resolver) {
	router.Route("/api/auth", func(r chi.Router) {
		// registering while holding a guest token upgrades that guest
		r.With(sessions.OptionalUser, middleware.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
		r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
		r.Post("/logout", authHandler.LogoutHandler)
		r.Post("/guest", authHandler.GuestHandler)
		r.With(sessions.RequireUser).Get("/me", authHandler.MeHandler)
	})
}
