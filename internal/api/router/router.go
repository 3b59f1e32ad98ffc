package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/novadental/booking-platform/internal/appointments"
	"github.com/novadental/booking-platform/internal/auth"
	"github.com/novadental/booking-platform/internal/availability"
	"github.com/novadental/booking-platform/internal/booking"
	httpmiddleware "github.com/novadental/booking-platform/internal/http/middleware"
	"github.com/novadental/booking-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *availability.Handler
	BookingHandler      *booking.Handler
	AppointmentsHandler *appointments.Handler
	AuthHandler         *auth.Handler
	MetricsHandler      http.Handler
	StaffJWTSecret      string
	CORSAllowedOrigins  []string
	RateLimitPerSecond  float64
	RateLimitBurst      int
	ClinicName          string
}

// New creates a chi router with all routes configured.
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

	// Public endpoints: health, metrics, availability and booking.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck(cfg.ClinicName))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api", func(api chi.Router) {
			api.Get("/availability", cfg.AvailabilityHandler.Day)
			api.Post("/availability/refresh", cfg.AvailabilityHandler.Refresh)

			bookings := api.With()
			if cfg.RateLimitPerSecond > 0 {
				bookings = api.With(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
			}
			bookings.Post("/bookings", cfg.BookingHandler.Create)
		})

		if cfg.AuthHandler != nil {
			public.Post("/staff/login", cfg.AuthHandler.Login)
		}
	})

	// Staff endpoints, behind the session JWT.
	r.Route("/staff/appointments", func(staff chi.Router) {
		staff.Use(httpmiddleware.StaffJWT(cfg.StaffJWTSecret))
		staff.Get("/", cfg.AppointmentsHandler.List)
		staff.Patch("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
		staff.Delete("/done", cfg.AppointmentsHandler.DeleteDone)
		staff.Delete("/{id}", cfg.AppointmentsHandler.Delete)
		staff.Delete("/", cfg.AppointmentsHandler.DeleteAll)
	})

	return r
}

func healthCheck(clinicName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
			"clinic": clinicName,
		})
	}
}
