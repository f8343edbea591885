// Package users serves the admin user directory and user deletion.
package users

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/policy/deletepolicy"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/app/system/gates"
	"github.com/DivyanshJain907/tracku/internal/app/system/statscache"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for user administration.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Stats  *statscache.Cache
}

// NewHandler creates a new users Handler.
func NewHandler(db *mongo.Database, stats *statscache.Cache, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog, Stats: stats}
}

// ServeList handles GET /api/admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can list users")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := userstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users", err, "Failed to load users")
		return
	}
	writeJSON(w, users)
}

type deleteResponse struct {
	Message        string `json:"message"`
	DeletedUsers   int64  `json:"deletedUsers"`
	DeletedMembers int64  `json:"deletedMembers"`
}

// HandleDelete handles DELETE /api/admin/users/{id}.
//
// A leader's deletion cascades through their club the same way an admin
// club deletion does; a non-leader only takes their own records with them.
// An admin may not delete their own account.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can delete users")
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid user id")
		return
	}
	if id == g.UserID {
		uierrors.RenderValidation(w, "You cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := deletepolicy.DeleteUser(ctx, h.DB, h.Log, id)
	if err != nil {
		if err == userstore.ErrNotFound {
			uierrors.RenderNotFound(w, "User not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete user", err, "Deletion failed")
		return
	}

	h.Stats.Invalidate()

	writeJSON(w, deleteResponse{
		Message:        "User deleted",
		DeletedUsers:   res.DeletedUsers,
		DeletedMembers: res.DeletedMembers,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
