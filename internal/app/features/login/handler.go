// Package login implements the credential exchange: password check,
// approval gate, and token issuance.
package login

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	requeststore "github.com/DivyanshJain907/tracku/internal/app/store/accessrequests"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/DivyanshJain907/tracku/internal/app/system/authutil"
	"github.com/DivyanshJain907/tracku/internal/app/system/normalize"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides the login endpoint.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Auth       *auth.Manager
	AdminEmail string
}

// NewHandler creates a new login Handler.
func NewHandler(db *mongo.Database, authMgr *auth.Manager, adminEmail string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Auth:       authMgr,
		AdminEmail: normalize.Email(adminEmail),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string `json:"token"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"isAdmin"`
	IsClubLeader bool   `json:"isClubLeader"`
	IsApproved   bool   `json:"isApproved"`
}

type pendingResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
	UserID string `json:"userId"`
}

// HandleLogin processes POST /api/auth/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login payload", err, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Absent user and wrong password produce the same generic response.
	user, err := userstore.New(h.DB).GetByEmail(ctx, req.Email)
	if err != nil {
		if err == userstore.ErrNotFound {
			uierrors.RenderUnauthorized(w, "Invalid email or password")
			return
		}
		h.ErrLog.LogServerError(w, r, "load user for login", err, "Login failed")
		return
	}
	if !authutil.CheckPassword(req.Password, user.PasswordHash) {
		uierrors.RenderUnauthorized(w, "Invalid email or password")
		return
	}

	isAdmin := user.Email == h.AdminEmail

	if !user.IsApproved && !isAdmin {
		// Idempotent: a retried login reuses the existing pending request.
		if _, err := requeststore.New(h.DB).FindOrCreatePending(ctx, models.AccessRequest{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			Phone:    user.Phone,
		}); err != nil {
			h.Log.Warn("pending request lookup failed during login",
				zap.String("user_id", user.ID.Hex()),
				zap.Error(err))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(pendingResponse{
			Error:  "Your account is awaiting admin approval",
			Status: "pending_approval",
			UserID: user.ID.Hex(),
		})
		return
	}

	role := user.Role
	if isAdmin {
		role = models.RoleAdmin
	}
	// Unapproved callers were turned away above, so the token carries
	// approved=true and unlocks the roster, attendance, and club surfaces.
	token, err := h.Auth.Issue(user.ID.Hex(), user.Username, role, true)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue session token", err, "Login failed")
		return
	}

	h.Log.Info("user logged in",
		zap.String("user_id", user.ID.Hex()),
		zap.Bool("is_admin", isAdmin))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		Token:        token,
		UserID:       user.ID.Hex(),
		Username:     user.Username,
		IsAdmin:      isAdmin,
		IsClubLeader: user.IsClubLeader,
		IsApproved:   user.IsApproved || isAdmin,
	})
}
