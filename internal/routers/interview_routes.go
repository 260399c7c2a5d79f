package routers

import (
	"vocalhire/interview/internal/handlers"
	"vocalhire/interview/internal/middleware"
	"vocalhire/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, feedbackHandler *handlers.FeedbackHandler, reportHandler *handlers.ReportHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.CreateInterviewRequest]()).Post("/", interviewHandler.CreateHandler)
		r.Get("/", interviewHandler.ListHandler)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", interviewHandler.GetHandler)
			r.Get("/session", interviewHandler.SessionHandler)
			r.With(middleware.ValidateRequest[*models.EndInterviewRequest]()).Post("/end", interviewHandler.EndHandler)
			r.Get("/ws", interviewHandler.WebSocketHandler)
			r.Post("/feedback", feedbackHandler.GenerateHandler)
			r.Get("/report", reportHandler.DownloadHandler)
		})
	})
}

func ReportRoutes(router *chi.Mux, reportHandler *handlers.ReportHandler) {
	router.Route("/api/v1/reports", func(r chi.Router) {
		r.Get("/", reportHandler.ListHandler)
		r.With(middleware.ValidateRequest[*models.SummaryReportRequest]()).Post("/summary", reportHandler.SummaryHandler)
		r.With(middleware.ValidateRequest[*models.UpdateReportRequest]()).Patch("/{id}", reportHandler.UpdateHandler)
		r.Delete("/{id}", reportHandler.DeleteHandler)
	})
}
