// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	accessrequestsfeature "github.com/DivyanshJain907/tracku/internal/app/features/accessrequests"
	adminstatsfeature "github.com/DivyanshJain907/tracku/internal/app/features/adminstats"
	attendancefeature "github.com/DivyanshJain907/tracku/internal/app/features/attendance"
	clubsfeature "github.com/DivyanshJain907/tracku/internal/app/features/clubs"
	errorsfeature "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	healthfeature "github.com/DivyanshJain907/tracku/internal/app/features/health"
	loginfeature "github.com/DivyanshJain907/tracku/internal/app/features/login"
	registerfeature "github.com/DivyanshJain907/tracku/internal/app/features/register"
	settingsfeature "github.com/DivyanshJain907/tracku/internal/app/features/settings"
	teammembersfeature "github.com/DivyanshJain907/tracku/internal/app/features/teammembers"
	usersfeature "github.com/DivyanshJain907/tracku/internal/app/features/users"
	"github.com/DivyanshJain907/tracku/internal/app/system/auth"
	"github.com/DivyanshJain907/tracku/internal/app/system/limits"
	"github.com/DivyanshJain907/tracku/internal/app/system/metrics"
	"github.com/DivyanshJain907/tracku/internal/app/system/ratelimit"
	"github.com/DivyanshJain907/tracku/internal/app/system/statscache"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. TrackU builds the token manager, the
// shared stats cache and activity feed, and mounts the JSON API: public
// auth endpoints, the club/roster/attendance surfaces for signed-in users,
// and the admin area for approvals, deletion, stats, and site settings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	authMgr, err := auth.NewManager(appCfg.JWTSecret, appCfg.TokenTTL, logger)
	if err != nil {
		logger.Error("auth manager init failed", zap.Error(err))
		return nil, err
	}

	// Shared between the mutation paths (which record and invalidate) and
	// the admin dashboard (which reads).
	stats := statscache.NewCache(appCfg.StatsCacheTTL)
	feed := statscache.NewFeed(appCfg.ActivityFeedCap)

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.MongoDatabase

	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(limits.JSONBody)

	// Global auth middleware: parses the bearer token, if any, and loads the
	// TokenUser into the request context. Missing or invalid tokens pass
	// through; route-level middleware decides what requires sign-in.
	r.Use(authMgr.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	// Public authentication endpoints, throttled per client IP to slow
	// credential stuffing and registration floods.
	authLimiter := ratelimit.New(10, time.Minute)

	registerHandler := registerfeature.NewHandler(db, authMgr, appCfg.AdminEmail, feed, errLog, logger)
	r.Mount("/api/auth/register", authLimiter.Middleware(registerfeature.Routes(registerHandler)))

	loginHandler := loginfeature.NewHandler(db, authMgr, appCfg.AdminEmail, errLog, logger)
	r.Mount("/api/auth/login", authLimiter.Middleware(loginfeature.Routes(loginHandler)))

	// Clubs: browse for everyone signed in, deletion for admins
	clubsHandler := clubsfeature.NewHandler(db, feed, stats, errLog, logger)
	r.Mount("/api/clubs", clubsfeature.Routes(clubsHandler))
	r.Mount("/api/admin/clubs", clubsfeature.AdminRoutes(clubsHandler))

	// Roster and attendance, scoped to the caller's club
	teamMembersHandler := teammembersfeature.NewHandler(db, errLog, logger)
	r.Mount("/api/team-members", teammembersfeature.Routes(teamMembersHandler))

	attendanceHandler := attendancefeature.NewHandler(db, errLog, logger)
	r.Mount("/api/attendance", attendancefeature.Routes(attendanceHandler))

	// Admin area: approval queue, user management, dashboard, settings
	accessRequestsHandler := accessrequestsfeature.NewHandler(db, feed, stats, errLog, logger)
	r.Mount("/api/admin/access-requests", accessrequestsfeature.Routes(accessRequestsHandler))

	usersHandler := usersfeature.NewHandler(db, stats, errLog, logger)
	r.Mount("/api/admin/users", usersfeature.Routes(usersHandler))

	adminStatsHandler := adminstatsfeature.NewHandler(db, stats, feed, errLog, logger)
	r.Mount("/api/admin/stats", adminstatsfeature.StatsRoutes(adminStatsHandler))
	r.Mount("/api/admin/activity", adminstatsfeature.ActivityRoutes(adminStatsHandler))

	settingsHandler := settingsfeature.NewHandler(db, errLog, logger)
	r.Mount("/api/admin/settings", settingsfeature.Routes(settingsHandler))

	return r, nil
}
