package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/AbiralTr/Arc-Web/internal/handlers"
	"github.com/AbiralTr/Arc-Web/internal/middleware"
	"github.com/AbiralTr/Arc-Web/internal/models"
	"github.com/AbiralTr/Arc-Web/internal/session"
)

func QuestRoutes(router chi.Router, questHandler *handlers.QuestHandler, sessions *session.Resolver) {
	router.Route("/api/quests", func(r chi.Router) {
		r.Use(sessions.RequireUser)
		r.With(middleware.ValidateRequest[*models.GenerateQuestRequest]()).Post("/generate", questHandler.GenerateHandler)
		r.Post("/{id}/complete", questHandler.CompleteHandler)
		r.Get("/activity", questHandler.ActivityHandler)
	})
}
