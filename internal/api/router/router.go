package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docassist/platform/internal/admin"
	"github.com/docassist/platform/internal/appointments"
	"github.com/docassist/platform/internal/booking"
	"github.com/docassist/platform/internal/chatbot"
	"github.com/docassist/platform/internal/doctors"
	httpmiddleware "github.com/docassist/platform/internal/http/middleware"
	"github.com/docassist/platform/internal/reconcile"
	"github.com/docassist/platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	BookingHandler      *booking.Handler
	AppointmentsHandler *appointments.Handler
	ReconcileHandler    *reconcile.Handler
	DoctorsHandler      *doctors.Handler
	ChatbotHandler      *chatbot.Handler
	AdminHandler        *admin.Handler
	MetricsHandler      http.Handler
	JWTSecret           string
	AdminAuthSecret     string
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
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
	r.Use(httpmiddleware.OptionalSession(cfg.JWTSecret))

	// Public endpoints. The payment return must stay reachable without
	// a login: visitors arrive here from the payment processor's
	// redirect, possibly in a fresh browser session.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.DoctorsHandler != nil {
			public.Get("/doctors", cfg.DoctorsHandler.List)
			public.Get("/doctors/{id}", cfg.DoctorsHandler.Get)
		}
		if cfg.ReconcileHandler != nil {
			public.Get("/payments/return", cfg.ReconcileHandler.Return)
		}
		if cfg.ChatbotHandler != nil {
			public.Post("/chatbot", cfg.ChatbotHandler.Message)
		}
		if cfg.BookingHandler != nil {
			public.Get("/appointments/slots", cfg.BookingHandler.SlotList)
		}
	})

	// Patient endpoints require a signed-in session.
	r.Group(func(authed chi.Router) {
		authed.Use(httpmiddleware.RequireSession())
		if cfg.BookingHandler != nil {
			authed.Post("/appointments", cfg.BookingHandler.Create)
		}
		if cfg.AppointmentsHandler != nil {
			authed.Get("/appointments", cfg.AppointmentsHandler.List)
			authed.Get("/appointments/summary", cfg.AppointmentsHandler.Summary)
			authed.Post("/appointments/{id}/cancel", cfg.AppointmentsHandler.Cancel)
		}
	})

	// Admin endpoints use a separate HMAC secret.
	if cfg.AdminHandler != nil {
		r.Group(func(adm chi.Router) {
			adm.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			adm.Get("/admin/stats", cfg.AdminHandler.GetStats)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
