package adminstats

import (
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// StatsRoutes mounts GET /api/admin/stats.
func StatsRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeStats)
	return r
}

// ActivityRoutes mounts GET /api/admin/activity.
func ActivityRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeActivity)
	return r
}
