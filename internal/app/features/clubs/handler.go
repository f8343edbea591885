// Package clubs serves club listings and the admin-only cascading club
// deletion.
package clubs

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/policy/deletepolicy"
	clubstore "github.com/DivyanshJain907/tracku/internal/app/store/clubs"
	"github.com/DivyanshJain907/tracku/internal/app/system/gates"
	"github.com/DivyanshJain907/tracku/internal/app/system/statscache"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for clubs.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Feed   *statscache.Feed
	Stats  *statscache.Cache
}

// NewHandler creates a new clubs Handler.
func NewHandler(db *mongo.Database, feed *statscache.Feed, stats *statscache.Cache, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Feed:   feed,
		Stats:  stats,
	}
}

// ServeList handles GET /api/clubs.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if g := gates.RequireApproved(w, r); !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubs, err := clubstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list clubs", err, "Failed to load clubs")
		return
	}
	writeJSON(w, clubs)
}

// ServeDetail handles GET /api/clubs/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	if g := gates.RequireApproved(w, r); !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid club id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	club, err := clubstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == clubstore.ErrNotFound {
			uierrors.RenderNotFound(w, "Club not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "get club", err, "Failed to load club")
		return
	}
	writeJSON(w, club)
}

type deleteResponse struct {
	Message        string `json:"message"`
	DeletedUsers   int64  `json:"deletedUsers"`
	DeletedMembers int64  `json:"deletedMembers"`
}

// HandleDelete handles DELETE /api/admin/clubs/{id}.
//
// Runs the full cascade: roster, member files, ledger, attendance, access
// requests, and club users. Cascade steps are best-effort; partial
// completion is logged, not rolled back.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can delete clubs")
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid club id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	club, err := clubstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == clubstore.ErrNotFound {
			uierrors.RenderNotFound(w, "Club not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "get club before delete", err, "Deletion failed")
		return
	}

	res, err := deletepolicy.DeleteClub(ctx, h.DB, h.Log, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete club", err, "Deletion failed")
		return
	}

	h.Feed.Record(statscache.Entry{
		Kind:    "club_deleted",
		Actor:   g.Username,
		Subject: club.Name,
	})
	h.Stats.Invalidate()

	writeJSON(w, deleteResponse{
		Message:        "Club deleted",
		DeletedUsers:   res.DeletedUsers,
		DeletedMembers: res.DeletedMembers,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
