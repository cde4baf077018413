package users

import "github.com/go-chi/chi/v5"

// Routes returns the router for /api/users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/top-contributors", h.TopContributors)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Post("/xp", h.GrantXP)
		r.Post("/history", h.AddHistory)
		r.Post("/bonus", h.ActivateBonus)
	})

	return r
}
