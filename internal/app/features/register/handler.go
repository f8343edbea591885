// Package register implements leader self-registration: identity, club
// resolution, and the pending access request, in one request.
package register

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/policy/clubpolicy"
	requeststore "github.com/DivyanshJain907/tracku/internal/app/store/accessrequests"
	settingsstore "github.com/DivyanshJain907/tracku/internal/app/store/settings"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/DivyanshJain907/tracku/internal/app/system/authutil"
	"github.com/DivyanshJain907/tracku/internal/app/system/inputval"
	"github.com/DivyanshJain907/tracku/internal/app/system/metrics"
	"github.com/DivyanshJain907/tracku/internal/app/system/normalize"
	"github.com/DivyanshJain907/tracku/internal/app/system/sanitize"
	"github.com/DivyanshJain907/tracku/internal/app/system/statscache"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides the registration endpoint.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Auth       *auth.Manager
	AdminEmail string
	Feed       *statscache.Feed
}

// NewHandler creates a new register Handler.
func NewHandler(db *mongo.Database, authMgr *auth.Manager, adminEmail string, feed *statscache.Feed, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Auth:       authMgr,
		AdminEmail: normalize.Email(adminEmail),
		Feed:       feed,
	}
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Phone           string `json:"phone"`
	IsClubLeader    bool   `json:"isClubLeader"`
	ClubName        string `json:"clubName"`
	ClubDescription string `json:"clubDescription"`
	Message         string `json:"message"`
}

type registerResponse struct {
	Token        string `json:"token"`
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	IsClubLeader bool   `json:"isClubLeader"`
	IsApproved   bool   `json:"isApproved"`
}

// HandleRegister processes POST /api/auth/register.
//
// Writes are sequential with no cross-document transaction. A failure
// after the user insert leaves a user without a club binding or access
// request; each such failure is logged with the user id so the partial
// state is visible, and the club binding self-heals on the next
// team-member write.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode register payload", err, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	settings, err := settingsstore.New(h.DB).Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load site settings", err, "Registration is unavailable")
		return
	}
	if settings.MaintenanceMode {
		uierrors.RenderMaintenance(w)
		return
	}
	if !settings.AllowNewRegistrations {
		uierrors.RenderForbidden(w, "New registrations are currently closed")
		return
	}

	// The email keeps its submitted case; the store derives the folded
	// email_ci shadow for uniqueness and lookup.
	req.Username = normalize.Name(req.Username)
	req.Email = normalize.Name(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		uierrors.RenderValidation(w, "Username, email, and password are required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		uierrors.RenderValidation(w, "A valid email address is required")
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		uierrors.RenderValidation(w, err.Error())
		return
	}

	phone := normalize.Phone(req.Phone)
	if req.Phone != "" && !normalize.ValidPhone(phone) {
		uierrors.RenderValidation(w, "Phone number must be 10 digits and start with 6 or higher")
		return
	}

	users := userstore.New(h.DB)
	taken, err := users.EmailOrPhoneExists(ctx, req.Email, phone)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check email/phone uniqueness", err, "Registration failed")
		return
	}
	if taken {
		uierrors.RenderValidation(w, "An account with this email or phone already exists")
		return
	}

	if !req.IsClubLeader {
		uierrors.RenderForbidden(w, "Only club leaders can self-register; other accounts are created through approval")
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "Registration failed")
		return
	}

	role := models.RoleLeader
	if normalize.Email(req.Email) == h.AdminEmail {
		role = models.RoleAdmin
	}

	user, err := users.Create(ctx, models.User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		IsClubLeader: true,
		IsApproved:   false,
	})
	if err != nil {
		if err == userstore.ErrDuplicate {
			uierrors.RenderValidation(w, "An account with this email or phone already exists")
			return
		}
		h.ErrLog.LogServerError(w, r, "create user", err, "Registration failed")
		return
	}

	clubName := normalize.Name(req.ClubName)
	if clubName == "" {
		clubName = user.Username + "'s Club"
	}
	if _, err := clubpolicy.ResolveClub(ctx, h.DB, user.ID, clubName, sanitize.Text(req.ClubDescription)); err != nil {
		// User exists but has no club binding; EnsureClubFor repairs this
		// lazily on the first roster write.
		h.Log.Warn("club binding failed after user creation",
			zap.String("user_id", user.ID.Hex()),
			zap.String("club_name", clubName),
			zap.Error(err))
	}

	reqs := requeststore.New(h.DB)
	if _, err := reqs.FindOrCreatePending(ctx, models.AccessRequest{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Message:  sanitize.Text(req.Message),
	}); err != nil {
		h.Log.Warn("access request creation failed after user creation",
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}

	// The token carries approved=false: the caller can poll their access
	// request but cannot touch rosters, attendance, or clubs until an admin
	// approves them and they log in again. The admin address skips the queue.
	approved := role == models.RoleAdmin
	token, err := h.Auth.Issue(user.ID.Hex(), user.Username, user.Role, approved)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue session token", err, "Registration failed")
		return
	}

	metrics.RegistrationsTotal.Inc()
	h.Feed.Record(statscache.Entry{
		Kind:    "registration",
		Actor:   user.Username,
		Subject: user.Email,
	})
	h.Log.Info("leader registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(registerResponse{
		Token:        token,
		UserID:       user.ID.Hex(),
		Username:     user.Username,
		IsClubLeader: user.IsClubLeader,
		IsApproved:   approved,
	})
}
