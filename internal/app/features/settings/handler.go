// Package settings serves the admin-only site settings: maintenance mode
// and the registration gate.
package settings

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	settingsstore "github.com/DivyanshJain907/tracku/internal/app/store/settings"
	"github.com/DivyanshJain907/tracku/internal/app/system/gates"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for site settings.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler creates a new settings Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

// ServeGet handles GET /api/admin/settings.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can view settings")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := settingsstore.New(h.DB).Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load site settings", err, "Failed to load settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s)
}

type updateRequest struct {
	MaintenanceMode       bool `json:"maintenanceMode"`
	AllowNewRegistrations bool `json:"allowNewRegistrations"`
}

// HandleUpdate handles PUT /api/admin/settings.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can change settings")
	if !g.OK {
		return
	}

	var body updateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		uierrors.RenderValidation(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := settingsstore.New(h.DB)
	if err := store.Save(ctx, models.SiteSettings{
		MaintenanceMode:       body.MaintenanceMode,
		AllowNewRegistrations: body.AllowNewRegistrations,
	}, g.UserID); err != nil {
		h.ErrLog.LogServerError(w, r, "save site settings", err, "Failed to save settings")
		return
	}

	h.Log.Info("site settings updated",
		zap.Bool("maintenance_mode", body.MaintenanceMode),
		zap.Bool("allow_new_registrations", body.AllowNewRegistrations),
		zap.String("updated_by", g.UserID.Hex()))

	s, err := store.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload site settings", err, "Failed to load settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s)
}
