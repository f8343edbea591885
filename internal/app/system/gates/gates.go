// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization and render JSON taxonomy
// errors when checks fail.
//
// Routes with uniform role requirements use auth.RequireRole middleware in
// routes.go; gates are for handlers whose requirements differ from their
// route group (for example the access-request list, where a non-admin may
// query their own requests only).
package gates

import (
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Role     string
	Username string
	UserID   primitive.ObjectID
	Approved bool
	OK       bool
}

const pendingMsg = "Your account is awaiting admin approval"

// RequireAuth ensures a user is authenticated.
// If not, it renders a 401 envelope and returns OK=false.
//
// RequireAuth does not check approval: the access-request list uses it so a
// pending leader can poll their own request status.
func RequireAuth(w http.ResponseWriter, r *http.Request) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, "")
		return Result{OK: false}
	}
	return Result{Role: role, Username: name, UserID: uid, Approved: authz.IsApproved(r), OK: true}
}

// RequireApproved ensures the user is authenticated and their account was
// approved when the token was issued. A registration-time token carries
// approved=false until the user logs in again after admin approval.
func RequireApproved(w http.ResponseWriter, r *http.Request) Result {
	g := RequireAuth(w, r)
	if !g.OK {
		return g
	}
	if !g.Approved {
		uierrors.RenderForbidden(w, pendingMsg)
		return Result{OK: false}
	}
	return g
}

// RequireAdmin ensures the user is authenticated and holds the admin role.
// Renders 401 when unauthenticated and 403 with the given message otherwise.
func RequireAdmin(w http.ResponseWriter, r *http.Request, forbiddenMsg string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, "")
		return Result{OK: false}
	}
	if role != "admin" {
		uierrors.RenderForbidden(w, forbiddenMsg)
		return Result{OK: false}
	}
	return Result{Role: role, Username: name, UserID: uid, Approved: true, OK: true}
}

// RequireAdminOrLeader ensures the user is authenticated, is an admin or a
// club leader, and holds an approved account. A leader whose token predates
// approval is rejected even though the role claim already says "leader".
func RequireAdminOrLeader(w http.ResponseWriter, r *http.Request, forbiddenMsg string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, "")
		return Result{OK: false}
	}
	if role != "admin" && role != "leader" {
		uierrors.RenderForbidden(w, forbiddenMsg)
		return Result{OK: false}
	}
	if !authz.IsApproved(r) {
		uierrors.RenderForbidden(w, pendingMsg)
		return Result{OK: false}
	}
	return Result{Role: role, Username: name, UserID: uid, Approved: true, OK: true}
}
