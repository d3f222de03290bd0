package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scancerlabs/scancer-platform/internal/auth"
	"github.com/scancerlabs/scancer-platform/internal/chatbot"
	"github.com/scancerlabs/scancer-platform/internal/diagnosis"
	httpmiddleware "github.com/scancerlabs/scancer-platform/internal/http/middleware"
	"github.com/scancerlabs/scancer-platform/internal/records"
	"github.com/scancerlabs/scancer-platform/internal/schedules"
	"github.com/scancerlabs/scancer-platform/internal/users"
	"github.com/scancerlabs/scancer-platform/pkg/logging"
)

// Config holds the router's handlers and shared middleware settings.
type Config struct {
	Logger             *logging.Logger
	Issuer             *auth.Issuer
	ChatHandler        *chatbot.Handler
	AuthHandler        *users.AuthHandler
	ProfileHandler     *users.Handler
	ScheduleHandler    *schedules.Handler
	RecordHandler      *records.Handler
	DiagnosisHandler   *diagnosis.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AuthHandler != nil {
			public.Route("/api/auth", func(r chi.Router) {
				r.Post("/register", cfg.AuthHandler.Register)
				r.Post("/login", cfg.AuthHandler.Login)
			})
		}
	})

	// Authenticated endpoints.
	r.Group(func(private chi.Router) {
		private.Use(auth.RequireUser(cfg.Issuer))

		if cfg.AuthHandler != nil {
			private.Get("/api/auth/me", cfg.AuthHandler.Me)
		}
		if cfg.ProfileHandler != nil {
			private.Get("/api/profile/me", cfg.ProfileHandler.Me)
			private.Put("/api/profile/me", cfg.ProfileHandler.Update)
		}
		if cfg.ChatHandler != nil {
			private.Post("/chat/{userID}", cfg.ChatHandler.Chat)
			private.Get("/history", cfg.ChatHandler.History)
			private.Delete("/history/{sessionID}", cfg.ChatHandler.ClearHistory)
		}
		if cfg.ScheduleHandler != nil {
			private.Route("/api/schedules", func(r chi.Router) {
				r.Get("/", cfg.ScheduleHandler.List)
				r.Post("/", cfg.ScheduleHandler.Create)
				r.Put("/{id}", cfg.ScheduleHandler.Update)
				r.Delete("/{id}", cfg.ScheduleHandler.Delete)
			})
		}
		if cfg.RecordHandler != nil {
			private.Get("/api/records", cfg.RecordHandler.List)
			private.Delete("/api/records/{id}", cfg.RecordHandler.Delete)
		}
		if cfg.DiagnosisHandler != nil {
			private.Post("/api/diagnosis", cfg.DiagnosisHandler.Diagnose)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
