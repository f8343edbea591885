// Package accessrequests implements the admin review queue: listing,
// approving, and rejecting access requests.
package accessrequests

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	requeststore "github.com/DivyanshJain907/tracku/internal/app/store/accessrequests"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/app/system/gates"
	"github.com/DivyanshJain907/tracku/internal/app/system/metrics"
	"github.com/DivyanshJain907/tracku/internal/app/system/statscache"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for the access-request queue.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Feed   *statscache.Feed
	Stats  *statscache.Cache
}

// NewHandler creates a new accessrequests Handler.
func NewHandler(db *mongo.Database, feed *statscache.Feed, stats *statscache.Cache, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		Feed:   feed,
		Stats:  stats,
	}
}

type reviewResponse struct {
	Message       string                `json:"message"`
	AccessRequest *models.AccessRequest `json:"accessRequest"`
}

// ServeList handles GET /api/admin/access-requests?userId=.
//
// Admins see every request. A non-admin may only poll their own: the
// userId query parameter must equal the token subject, otherwise 403.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAuth(w, r)
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := requeststore.New(h.DB)
	userIDParam := r.URL.Query().Get("userId")

	if g.Role != models.RoleAdmin {
		if userIDParam == "" || userIDParam != g.UserID.Hex() {
			uierrors.RenderForbidden(w, "You may only view your own access requests")
			return
		}
		reqs, err := store.ListByUser(ctx, g.UserID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list own access requests", err, "Failed to load access requests")
			return
		}
		writeJSON(w, reqs)
		return
	}

	if userIDParam != "" {
		uid, err := primitive.ObjectIDFromHex(userIDParam)
		if err != nil {
			uierrors.RenderValidation(w, "Invalid userId")
			return
		}
		reqs, err := store.ListByUser(ctx, uid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list access requests by user", err, "Failed to load access requests")
			return
		}
		writeJSON(w, reqs)
		return
	}

	reqs, err := store.List(ctx, "")
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list access requests", err, "Failed to load access requests")
		return
	}
	writeJSON(w, reqs)
}

// HandleApprove handles POST /api/admin/access-requests/{id}/approve.
//
// The request flips first, then the user's approval flag. When the user
// update fails the request stays approved and the user stays unapproved;
// the inconsistency is logged rather than rolled back, and the next
// approve attempt returns 409.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can approve access requests")
	if !g.OK {
		return
	}

	reqID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid request id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := requeststore.New(h.DB)
	if err := store.Approve(ctx, reqID, g.UserID); err != nil {
		switch err {
		case requeststore.ErrNotFound:
			uierrors.RenderNotFound(w, "Access request not found")
		case requeststore.ErrAlreadyReviewed:
			uierrors.RenderConflict(w, "This access request has already been reviewed")
		default:
			h.ErrLog.LogServerError(w, r, "approve access request", err, "Approval failed")
		}
		return
	}

	req, err := store.GetByID(ctx, reqID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload approved request", err, "Approval failed")
		return
	}

	if err := userstore.New(h.DB).SetApproved(ctx, req.UserID, true); err != nil {
		h.Log.Error("user approval flag update failed after request approved",
			zap.String("request_id", reqID.Hex()),
			zap.String("user_id", req.UserID.Hex()),
			zap.Error(err))
		h.ErrLog.LogServerError(w, r, "set user approved", err, "The request was approved but the user update failed")
		return
	}

	metrics.ApprovalsTotal.Inc()
	h.Feed.Record(statscache.Entry{
		Kind:    "approval",
		Actor:   g.Username,
		Subject: req.Username,
	})
	h.Stats.Invalidate()
	h.Log.Info("access request approved",
		zap.String("request_id", reqID.Hex()),
		zap.String("user_id", req.UserID.Hex()),
		zap.String("reviewed_by", g.UserID.Hex()))

	writeJSON(w, reviewResponse{Message: "Access request approved", AccessRequest: req})
}

// HandleReject handles POST /api/admin/access-requests/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can reject access requests")
	if !g.OK {
		return
	}

	reqID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid request id")
		return
	}

	var body struct {
		RejectionReason string `json:"rejectionReason"`
	}
	// An empty body is fine; the default reason applies.
	_ = json.NewDecoder(r.Body).Decode(&body)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := requeststore.New(h.DB)
	if err := store.Reject(ctx, reqID, g.UserID, body.RejectionReason); err != nil {
		switch err {
		case requeststore.ErrNotFound:
			uierrors.RenderNotFound(w, "Access request not found")
		case requeststore.ErrAlreadyReviewed:
			uierrors.RenderConflict(w, "This access request has already been reviewed")
		default:
			h.ErrLog.LogServerError(w, r, "reject access request", err, "Rejection failed")
		}
		return
	}

	req, err := store.GetByID(ctx, reqID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload rejected request", err, "Rejection failed")
		return
	}

	metrics.RejectionsTotal.Inc()
	h.Feed.Record(statscache.Entry{
		Kind:    "rejection",
		Actor:   g.Username,
		Subject: req.Username,
		Detail:  req.RejectionReason,
	})
	h.Stats.Invalidate()
	h.Log.Info("access request rejected",
		zap.String("request_id", reqID.Hex()),
		zap.String("reviewed_by", g.UserID.Hex()))

	writeJSON(w, reviewResponse{Message: "Access request rejected", AccessRequest: req})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
