package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/mindwell-app/mindwell-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.Me)
	r.Post("/api/auth/update-password", handlers.UpdatePassword)

	// Profile
	r.Get("/api/profile", handlers.GetProfile)

	// Journal editor session (server-side autosave state)
	r.Get("/api/journal/session", handlers.GetEditor)
	r.Post("/api/journal/session/mood-before", handlers.SelectMoodBefore)
	r.Post("/api/journal/session/content", handlers.UpdateContent)
	r.Post("/api/journal/session/mood-after", handlers.SelectMoodAfter)
	r.Post("/api/journal/session/retry", handlers.RetrySave)
	r.Post("/api/journal/session/dictation", handlers.Dictate)

	// Saved journal entries
	r.Get("/api/journal/entries", handlers.ListEntries)
	r.Get("/api/journal/entries/{id}", handlers.GetEntry)
	r.Delete("/api/journal/entries/{id}", handlers.DeleteEntry)

	// Realtime editor events (save status, advisory ready)
	r.Get("/ws/journal", handlers.JournalWebSocket)

	// AI proxy + daily quote
	r.Post("/api/ai", handlers.AIProxy)
	r.Get("/api/quote", handlers.DailyQuote)

	// Insights
	r.Get("/api/insights/moods", handlers.MoodSeries)
	r.Get("/api/insights/moods/chart.png", handlers.MoodChart)

	// Export
	r.Get("/api/journal/export", handlers.ExportJournal)
}
