// Package teammembers implements the roster API: creating members,
// recording point/hour deltas, and pruning history entries.
package teammembers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/policy/clubpolicy"
	rosterstore "github.com/DivyanshJain907/tracku/internal/app/store/roster"
	"github.com/DivyanshJain907/tracku/internal/app/system/gates"
	"github.com/DivyanshJain907/tracku/internal/app/system/sanitize"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for the roster.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler creates a new teammembers Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// resolveClub determines which club a roster call operates on. A leader
// always works in their own club, auto-provisioned on first use; an admin
// names the club through the clubId parameter.
func (h *Handler) resolveClub(ctx context.Context, g gates.Result, clubIDParam string) (primitive.ObjectID, error) {
	if g.Role == models.RoleAdmin {
		if clubIDParam == "" {
			return primitive.NilObjectID, fmt.Errorf("clubId is required for admin roster calls")
		}
		id, err := primitive.ObjectIDFromHex(clubIDParam)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("invalid clubId")
		}
		return id, nil
	}
	club, err := clubpolicy.EnsureClubFor(ctx, h.DB, g.UserID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return club.ID, nil
}

type createRequest struct {
	Name             string  `json:"name"`
	EnrollmentNumber string  `json:"enrollmentNumber"`
	Position         string  `json:"position"`
	Points           int     `json:"points"`
	Hours            float64 `json:"hours"`
	ClubID           string  `json:"clubId"`
}

// HandleCreate handles POST /api/team-members.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can manage the roster")
	if !g.OK {
		return
	}

	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.RenderValidation(w, "Invalid request body")
		return
	}
	if body.Name == "" {
		uierrors.RenderValidation(w, "Name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	clubID, err := h.resolveClub(ctx, g, body.ClubID)
	if err != nil {
		uierrors.RenderValidation(w, err.Error())
		return
	}

	tm, err := rosterstore.New(h.DB).CreateMember(ctx, models.TeamMember{
		ClubID:           clubID,
		Name:             body.Name,
		EnrollmentNumber: body.EnrollmentNumber,
		Position:         body.Position,
		Points:           body.Points,
		Hours:            body.Hours,
		CreatedBy:        g.UserID,
	})
	if err != nil {
		if err == rosterstore.ErrDuplicateMember {
			uierrors.RenderValidation(w, err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "create team member", err, "Failed to create team member")
		return
	}

	h.Log.Info("team member created",
		zap.String("member_id", tm.ID.Hex()),
		zap.String("club_id", clubID.Hex()),
		zap.String("created_by", g.UserID.Hex()))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(tm)
}

// ServeList handles GET /api/team-members?clubId=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can view the roster")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubID, err := h.resolveClub(ctx, g, r.URL.Query().Get("clubId"))
	if err != nil {
		uierrors.RenderValidation(w, err.Error())
		return
	}

	roster, err := rosterstore.New(h.DB).ListByClub(ctx, clubID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list roster", err, "Failed to load roster")
		return
	}
	writeJSON(w, roster)
}

// loadOwned loads a team member and verifies the caller may touch it.
// Admins may touch any member; a leader only members of their own club.
func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request, g gates.Result) (*models.TeamMember, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid team member id")
		return nil, false
	}

	tm, err := rosterstore.New(h.DB).GetByID(ctx, id)
	if err != nil {
		if err == rosterstore.ErrNotFound {
			uierrors.RenderNotFound(w, "Team member not found")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "get team member", err, "Failed to load team member")
		return nil, false
	}

	if g.Role != models.RoleAdmin {
		club, err := clubpolicy.EnsureClubFor(ctx, h.DB, g.UserID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "resolve caller club", err, "Failed to load team member")
			return nil, false
		}
		if tm.ClubID != club.ID {
			uierrors.RenderForbidden(w, "This team member belongs to another club")
			return nil, false
		}
	}
	return tm, true
}

// ServeDetail handles GET /api/team-members/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can view the roster")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tm, ok := h.loadOwned(ctx, w, r, g)
	if !ok {
		return
	}
	writeJSON(w, tm)
}

type updateRequest struct {
	Name             *string `json:"name"`
	EnrollmentNumber *string `json:"enrollmentNumber"`
	Position         *string `json:"position"`
	Points           int     `json:"points"`
	Hours            float64 `json:"hours"`
	Remark           string  `json:"remark"`
	Date             *string `json:"date"` // RFC 3339 or YYYY-MM-DD, defaults to now
}

func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d.UTC(), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return d.UTC(), nil
}

// HandleUpdate handles PUT /api/team-members/{id}.
//
// Points and hours are deltas added to the running totals through a new
// history entry, never absolute sets. Identity fields (name, enrollment,
// position) are edited in place when present.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can manage the roster")
	if !g.OK {
		return
	}

	var body updateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.RenderValidation(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tm, ok := h.loadOwned(ctx, w, r, g)
	if !ok {
		return
	}

	store := rosterstore.New(h.DB)

	if body.Name != nil || body.EnrollmentNumber != nil || body.Position != nil {
		name := tm.Name
		if body.Name != nil {
			name = *body.Name
		}
		enrollment := tm.EnrollmentNumber
		if body.EnrollmentNumber != nil {
			enrollment = *body.EnrollmentNumber
		}
		position := tm.Position
		if body.Position != nil {
			position = *body.Position
		}
		if err := store.UpdateDetails(ctx, tm.ID, name, enrollment, position); err != nil {
			h.ErrLog.LogServerError(w, r, "update team member details", err, "Update failed")
			return
		}
	}

	if body.Points != 0 || body.Hours != 0 || body.Remark != "" {
		remark := sanitize.Text(body.Remark)
		if remark != "" {
			remark = fmt.Sprintf("%s (by %s)", remark, g.Username)
		}
		entry := models.HistoryEntry{
			Points: body.Points,
			Hours:  body.Hours,
			Remark: remark,
			By:     g.UserID,
		}
		if body.Date != nil {
			d, err := parseDate(*body.Date)
			if err != nil {
				uierrors.RenderValidation(w, "Invalid date")
				return
			}
			entry.Date = d
		}
		updated, err := store.AppendHistory(ctx, tm.ID, entry)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "append member history", err, "Update failed")
			return
		}
		writeJSON(w, updated)
		return
	}

	updated, err := store.GetByID(ctx, tm.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload team member", err, "Update failed")
		return
	}
	writeJSON(w, updated)
}

// HandleDelete handles DELETE /api/team-members/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can manage the roster")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tm, ok := h.loadOwned(ctx, w, r, g)
	if !ok {
		return
	}

	if err := rosterstore.New(h.DB).Delete(ctx, tm.ID); err != nil {
		if err == rosterstore.ErrNotFound {
			uierrors.RenderNotFound(w, "Team member not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete team member", err, "Deletion failed")
		return
	}

	writeJSON(w, map[string]string{"message": "Team member deleted"})
}

// HandleDeleteHistory handles DELETE /api/team-members/{id}/history/{updateId}.
//
// Removes one history entry and its paired ledger entry, then refolds the
// member's totals from the remaining ledger.
func (h *Handler) HandleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can manage the roster")
	if !g.OK {
		return
	}

	entryID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "updateId"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid history entry id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tm, ok := h.loadOwned(ctx, w, r, g)
	if !ok {
		return
	}

	updated, err := rosterstore.New(h.DB).DeleteHistoryEntry(ctx, tm.ID, entryID)
	if err != nil {
		if err == rosterstore.ErrEntryNotFound {
			uierrors.RenderNotFound(w, "History entry not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete history entry", err, "Deletion failed")
		return
	}
	writeJSON(w, updated)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
