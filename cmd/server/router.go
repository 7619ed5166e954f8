package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-study/internal/api"
	apiMiddleware "github.com/phrazzld/scry-study/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	studyHandler := api.NewStudyHandler(app.cardReviewService, app.statsService, app.cardService, app.logger)
	previewHandler := api.NewPreviewHandler(app.previewService, app.logger)
	contentHandler := api.NewContentHandler(app.contentService, app.logger)
	settingsHandler := api.NewSettingsHandler(app.settingsService, app.logger)

	limiter := apiMiddleware.NewRateLimiter(
		app.config.RateLimit.PreviewRequestsPerMinute,
		app.config.RateLimit.Burst,
		app.logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cardHandler.CreateCard)
			r.Get("/", cardHandler.ListCards)
			r.Get("/{id}", cardHandler.GetCard)
			r.Put("/{id}", cardHandler.UpdateCard)
			r.Delete("/{id}", cardHandler.DeleteCard)
		})

		r.Route("/study", func(r chi.Router) {
			r.Get("/counts", studyHandler.GetCounts)
			r.Get("/session", studyHandler.GetSessionCard)
			r.Post("/review", studyHandler.SubmitReview)
			r.Get("/quiz", studyHandler.GetQuizQuestion)
			r.Post("/quiz/answer", studyHandler.SubmitQuizAnswer)
			r.With(limiter.Handler).Post("/preview", previewHandler.Generate)
			r.Post("/preview/commit", previewHandler.Commit)
			r.Get("/stats", studyHandler.GetStats)
			r.Get("/stats/documents", studyHandler.GetStatsByDocument)
			r.Get("/export.csv", studyHandler.ExportCSV)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", contentHandler.CreateNote)
			r.Get("/", contentHandler.ListNotes)
			r.Get("/{id}", contentHandler.GetNote)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", contentHandler.CreateDocument)
			r.Get("/", contentHandler.ListDocuments)
			r.Post("/import", contentHandler.ImportDocument)
			r.Get("/{id}", contentHandler.GetDocument)
		})

		r.Get("/settings", settingsHandler.GetSettings)
		r.Put("/settings", settingsHandler.PutSetting)
	})

	r.Get("/health", api.Health)

	return r
}
