// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (lowercased), username, Mongo ObjectID,
// and a found flag. If no user is present in context or the user ID is
// malformed it returns "visitor", "", NilObjectID, false, so ok=true always
// means a valid authenticated user with a parseable ObjectID.
func UserCtx(r *http.Request) (role string, username string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed subject in a signed token - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Username, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsLeader reports whether the current request's user is a club leader.
func IsLeader(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "leader"
}

// IsApproved reports whether the current request's user held an approved
// account when their token was issued. Admins always count as approved, so
// the configured admin address is never locked out of the approval queue.
func IsApproved(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	return user.Approved || strings.EqualFold(user.Role, "admin")
}
