package server

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter builds the API routes.
func NewRouter(cfg Config) *chi.Mux {
	h := &handlers{cfg: cfg}
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", h.health)

	r.Route("/edits", func(r chi.Router) {
		r.Get("/", h.listEdits)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getEdit)
			r.Put("/", h.putEdit)
			r.Get("/layout", h.editLayout)
			r.Get("/hit", h.editHit)
			r.Get("/render.{format}", h.editRender)
			r.Get("/export.csv", h.exportCSV)
			r.Post("/views", h.createView)
		})
	})

	r.Route("/views/{vid}", func(r chi.Router) {
		r.Get("/layout", h.viewLayout)
		r.Post("/select", h.viewSelect)
		r.Get("/render.{format}", h.viewRender)
		r.Delete("/", h.deleteView)
	})

	return r
}
