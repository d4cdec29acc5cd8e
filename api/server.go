/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for internal tooling

SECURITY NOTE:
  No authentication middleware here. The engine sits behind the HR
  system's gateway, which owns sessions and authorization.

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
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/bonus", func(r chi.Router) {
			r.Post("/runs", h.SubmitBonus)
			r.Post("/{id}/approve", h.ApproveBonus)
			r.Post("/{id}/pay", h.PayBonus)
			r.Post("/{id}/supersede", h.SupersedeBonus)
		})

		r.Route("/gratuity", func(r chi.Router) {
			r.Post("/runs", h.SubmitGratuity)
			r.Post("/{id}/pay", h.PayGratuity)
			r.Post("/{id}/supersede", h.SupersedeGratuity)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/{id}/bonus", h.ListBonus)
			r.Get("/{id}/gratuity", h.ListGratuity)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/constraints", h.ListConstraints)
		})
	})

	return r
}
