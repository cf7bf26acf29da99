package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/AbiralTr/Arc-Web/internal/handlers"
)

func HealthRoutes(router chi.Router, healthHandler *handlers.HealthHandler) {
	router.Get("/health", healthHandler.HealthHandler)
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
}
