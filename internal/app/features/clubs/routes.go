package clubs

import (
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the read-only club endpoints under /api/clubs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)

	return r
}

// AdminRoutes mounts the destructive club endpoints under /api/admin/clubs.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Delete("/{id}", h.HandleDelete)

	return r
}
