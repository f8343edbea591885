package accessrequests

import (
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the access-request queue. Listing is available to any
// signed-in user (self-polling); approve/reject gate on admin inside the
// handler.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/{id}/approve", h.HandleApprove)
	r.Post("/{id}/reject", h.HandleReject)

	return r
}
