package settings

import (
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the site settings endpoints under /api/admin/settings.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeGet)
	r.Put("/", h.HandleUpdate)

	return r
}
