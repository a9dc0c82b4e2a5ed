package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindhaven/companion-backend/internal/handlers"
	"github.com/mindhaven/companion-backend/internal/middleware"
)

// Handlers collects everything SetupRoutes wires onto the router.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Journal     *handlers.JournalHandler
	Mood        *handlers.MoodHandler
	Mindfulness *handlers.MindfulnessHandler
	Insights    *handlers.InsightsHandler
	Chat        *handlers.ChatHandler
	Users       middleware.UserLoader
	JWTSecret   string
}

func SetupRoutes(r *chi.Mux, h Handlers) {
	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Public auth routes; token issuance gets its own tighter limiter.
	r.Post("/api/auth/register", h.Auth.Register)
	r.With(middleware.LoginRateLimit()).Post("/api/auth/token", h.Auth.Token)

	// Everything below requires a valid access token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(h.JWTSecret, h.Users))

		// Account routes
		r.Get("/api/auth/me", h.Auth.Me)
		r.Put("/api/auth/update", h.Auth.Update)
		r.Post("/api/auth/avatar", h.Auth.UploadAvatar)

		// Journal routes
		r.Get("/api/journal/", h.Journal.List)
		r.Post("/api/journal/", h.Journal.Create)
		r.Get("/api/journal/{id}", h.Journal.Get)
		r.Put("/api/journal/{id}", h.Journal.Update)
		r.Delete("/api/journal/{id}", h.Journal.Delete)
		r.Post("/api/journal/prompt", h.Journal.Prompt)

		// Mood routes
		r.Post("/api/mood/analyze", h.Mood.Analyze)
		r.Post("/api/mood/log", h.Mood.Log)
		r.Get("/api/mood/", h.Mood.List)
		r.Post("/api/mood/patterns", h.Mood.Patterns)

		// Mindfulness routes
		r.Get("/api/mindfulness/exercise", h.Mindfulness.Exercise)
		r.Post("/api/mindfulness/track", h.Mindfulness.Track)
		r.Get("/api/mindfulness/statistics", h.Mindfulness.Statistics)

		// Insights routes
		r.Get("/api/insights/weekly", h.Insights.Weekly)
		r.Get("/api/insights/patterns", h.Insights.Patterns)
	})

	// Companion chat authenticates inside the handler so browser clients
	// can pass the token as a query parameter.
	r.Get("/ws/chat", h.Chat.ServeWS)
}
