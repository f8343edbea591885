// Package auth issues and verifies the signed bearer tokens that carry a
// session. Tokens are HS256 JWTs with a seven-day default expiry; the role
// and approval claims are computed once at issuance (admin when the email
// matches the configured admin address) and trusted from the token
// afterwards. Registration issues an unapproved token; the approved claim
// only becomes true on a login after an admin has approved the account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenTTL is the default lifetime of an issued session token.
const TokenTTL = 7 * 24 * time.Hour

// TokenUser is the authenticated caller injected into r.Context().
type TokenUser struct {
	ID       string // user ObjectID hex
	Username string
	Role     string // admin | leader | member
	Approved bool   // account was approved when the token was issued
}

// Claims is the JWT claim set carried by a session token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	jwt.RegisteredClaims
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the token user from context and a found flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a token user into the request context for handler
// tests, bypassing token parsing.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

// NewManager creates a token manager. An empty secret is rejected so a
// misconfigured deployment fails at startup rather than signing tokens
// with a guessable key.
func NewManager(secret string, ttl time.Duration, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("auth: token signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, log: logger}, nil
}

// Issue signs a session token for the given user. The subject is the user
// ObjectID hex; jti is a fresh UUID so individual tokens are identifiable
// in logs. The approved flag is baked into the token, so a token issued at
// registration stays unapproved until the user logs in again after approval.
func (m *Manager) Issue(userID, username, role string, approved bool) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		Role:     role,
		Approved: approved,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token string and returns its claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// LoadTokenUser injects the token user into context when the request
// carries a valid bearer token. Requests without one (or with an expired or
// malformed token) continue unauthenticated; RequireSignedIn decides
// whether that matters for the route.
func (m *Manager) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.Parse(raw)
		if err != nil {
			m.log.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, &TokenUser{
			ID:       claims.Subject,
			Username: claims.Username,
			Role:     claims.Role,
			Approved: claims.Approved,
		}))
	})
}

// RequireSignedIn ensures there is a token user in context (set by
// LoadTokenUser) and responds 401 otherwise.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			uierrors.RenderUnauthorized(w, "Missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the token user holds one of the allowed roles.
// Responds 401 when unauthenticated and 403 on a role mismatch.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				uierrors.RenderUnauthorized(w, "Missing or invalid bearer token")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				uierrors.RenderForbidden(w, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
