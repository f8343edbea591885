package attendance

import (
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the attendance endpoints under /api/attendance.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.ServeList)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
