package register

import "github.com/go-chi/chi/v5"

// Routes mounts the public registration endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleRegister)
	return r
}
