package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestUser represents caller data for testing HTTP handlers. The helper
// constructors return approved users; flip Approved off to model a
// registration-time token whose holder is still in the approval queue.
type TestUser struct {
	ID       string
	Username string
	Role     string
	Approved bool
}

// AdminUser returns a TestUser with admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "Test Admin",
		Role:     "admin",
		Approved: true,
	}
}

// LeaderUser returns an approved TestUser with leader role.
func LeaderUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "Test Leader",
		Role:     "leader",
		Approved: true,
	}
}

// LeaderUserWithID returns an approved leader TestUser for an existing
// user id.
func LeaderUserWithID(id primitive.ObjectID) TestUser {
	return TestUser{
		ID:       id.Hex(),
		Username: "Test Leader",
		Role:     "leader",
		Approved: true,
	}
}

// UnapprovedLeaderUser returns a leader TestUser whose token predates
// admin approval.
func UnapprovedLeaderUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "Pending Leader",
		Role:     "leader",
	}
}

// MemberUser returns a TestUser with member role.
func MemberUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		Username: "Test Member",
		Role:     "member",
		Approved: true,
	}
}

// WithUser adds a caller to the request context for testing authenticated
// handlers. This bypasses the token middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.TokenUser{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Approved: user.Approved,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewAuthenticatedJSONRequest creates a JSON request with a user in context.
func NewAuthenticatedJSONRequest(method, target, body string, user TestUser) *http.Request {
	return WithUser(NewJSONRequest(method, target, body), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// ReadBody drains and returns the response body.
func (r *ResponseRecorder) ReadBody() string {
	b, _ := io.ReadAll(r.Body)
	return string(b)
}
