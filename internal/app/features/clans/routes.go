package clans

import "github.com/go-chi/chi/v5"

// Routes returns the router for /api/clans.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/war-stats", h.WarStats)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/join", h.Join)
		r.Post("/leave", h.Leave)
	})

	return r
}
