package routers

import (
	"vocalhire/interview/internal/handlers"
	"vocalhire/interview/internal/middleware"
	"vocalhire/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func MentorRoutes(router *chi.Mux, mentorHandler *handlers.MentorHandler) {
	router.With(middleware.ValidateRequest[*models.ChatRequest]()).Post("/api/v1/mentor/chat", mentorHandler.ChatHandler)
}

func SettingsRoutes(router *chi.Mux, settingsHandler *handlers.SettingsHandler) {
	router.Get("/api/v1/settings/{key}", settingsHandler.GetHandler)
	router.Put("/api/v1/settings/{key}", settingsHandler.PutHandler)
}

func CatalogRoutes(router *chi.Mux, catalogHandler *handlers.CatalogHandler) {
	router.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/categories", catalogHandler.CategoriesHandler)
		r.Get("/questions", catalogHandler.QuestionsHandler)
	})
}
