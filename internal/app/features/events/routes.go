package events

import "github.com/go-chi/chi/v5"

// Routes returns the router for /api/events.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	return r
}
