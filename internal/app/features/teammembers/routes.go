package teammembers

import (
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the roster endpoints under /api/team-members.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Delete("/{id}/history/{updateId}", h.HandleDeleteHistory)

	return r
}
