/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/quotes      Quote computation
  /api/calendar    Calendar views
  /api/bookings    Booking confirmation and lookup
  /api/units       Unit set and price profiles
  /api/overrides   Special-day records
  /api/settings    Property settings
  /api/admin       Operator cell overrides

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/quotes", h.ComputeQuote)
		r.Get("/calendar", h.Calendar)

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.ListBookings)
			r.Post("/", h.ConfirmBooking)
			r.Get("/{id}", h.GetBooking)
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", h.ListUnits)
			r.Post("/", h.CreateUnit)
			r.Get("/{id}/prices", h.GetPriceProfile)
			r.Put("/{id}/prices", h.SetPriceProfile)
		})

		r.Route("/overrides", func(r chi.Router) {
			r.Get("/", h.ListOverrides)
			r.Put("/{date}", h.SetOverride)
			r.Delete("/{date}", h.RemoveOverride)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/status", h.SetStatus)
		})
	})

	return r
}
