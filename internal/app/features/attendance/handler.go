// Package attendance records club session attendance.
package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/policy/clubpolicy"
	attendancestore "github.com/DivyanshJain907/tracku/internal/app/store/attendance"
	"github.com/DivyanshJain907/tracku/internal/app/system/gates"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for attendance records.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler creates a new attendance Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

func (h *Handler) resolveClub(ctx context.Context, g gates.Result, clubIDParam string) (primitive.ObjectID, bool) {
	if g.Role == models.RoleAdmin {
		id, err := primitive.ObjectIDFromHex(clubIDParam)
		if err != nil {
			return primitive.NilObjectID, false
		}
		return id, true
	}
	club, err := clubpolicy.EnsureClubFor(ctx, h.DB, g.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return club.ID, true
}

type createRequest struct {
	Date        string   `json:"date"` // RFC 3339 or YYYY-MM-DD, defaults to now
	AttendeeIDs []string `json:"attendeeIds"`
	ClubID      string   `json:"clubId"`
}

// HandleCreate handles POST /api/attendance.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can record attendance")
	if !g.OK {
		return
	}

	var body createRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.RenderValidation(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubID, ok := h.resolveClub(ctx, g, body.ClubID)
	if !ok {
		uierrors.RenderValidation(w, "A valid clubId is required")
		return
	}

	attendees := make([]primitive.ObjectID, 0, len(body.AttendeeIDs))
	for _, raw := range body.AttendeeIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			uierrors.RenderValidation(w, "Invalid attendee id")
			return
		}
		attendees = append(attendees, id)
	}

	date := time.Now().UTC()
	if body.Date != "" {
		d, err := parseDate(body.Date)
		if err != nil {
			uierrors.RenderValidation(w, "Invalid date")
			return
		}
		date = d
	}

	rec, err := attendancestore.New(h.DB).Create(ctx, models.Attendance{
		ClubID:      clubID,
		Date:        date,
		AttendeeIDs: attendees,
		CreatedBy:   g.UserID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create attendance", err, "Failed to record attendance")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(rec)
}

// ServeList handles GET /api/attendance?clubId=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can view attendance")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	clubID, ok := h.resolveClub(ctx, g, r.URL.Query().Get("clubId"))
	if !ok {
		uierrors.RenderValidation(w, "A valid clubId is required")
		return
	}

	records, err := attendancestore.New(h.DB).ListByClub(ctx, clubID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list attendance", err, "Failed to load attendance")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

// HandleDelete handles DELETE /api/attendance/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdminOrLeader(w, r, "Only admins and club leaders can delete attendance")
	if !g.OK {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderValidation(w, "Invalid attendance id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := attendancestore.New(h.DB)
	rec, err := store.GetByID(ctx, id)
	if err != nil {
		if err == attendancestore.ErrNotFound {
			uierrors.RenderNotFound(w, "Attendance record not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "get attendance", err, "Deletion failed")
		return
	}

	if g.Role != models.RoleAdmin {
		club, err := clubpolicy.EnsureClubFor(ctx, h.DB, g.UserID)
		if err != nil || rec.ClubID != club.ID {
			uierrors.RenderForbidden(w, "This record belongs to another club")
			return
		}
	}

	if err := store.Delete(ctx, id); err != nil {
		if err == attendancestore.ErrNotFound {
			uierrors.RenderNotFound(w, "Attendance record not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete attendance", err, "Deletion failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Attendance record deleted"})
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
