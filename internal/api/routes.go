package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(MetricsMiddleware(h.metrics))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/families", func(r chi.Router) {
			r.Post("/", h.CreateFamily)
			r.Route("/{code}", func(r chi.Router) {
				r.Get("/", h.GetFamily)
				r.Get("/data", h.GetSharedData)
				r.Put("/data", h.PutSharedData)
				r.Get("/subscribe", h.Subscribe)
			})
		})
	})

	r.Method("GET", "/metrics", h.metrics.Handler())

	return r
}
