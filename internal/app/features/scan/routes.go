package scan

import "github.com/go-chi/chi/v5"

// Routes returns the router for /api/scan.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	return r
}
