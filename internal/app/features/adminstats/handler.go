// Package adminstats serves the admin console's aggregate stats snapshot
// and the recent-activity feed.
package adminstats

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	requeststore "github.com/DivyanshJain907/tracku/internal/app/store/accessrequests"
	clubstore "github.com/DivyanshJain907/tracku/internal/app/store/clubs"
	rosterstore "github.com/DivyanshJain907/tracku/internal/app/store/roster"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/app/system/gates"
	"github.com/DivyanshJain907/tracku/internal/app/system/statscache"
	"github.com/DivyanshJain907/tracku/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler provides HTTP handlers for admin stats and activity.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Stats  *statscache.Cache
	Feed   *statscache.Feed
}

// NewHandler creates a new adminstats Handler.
func NewHandler(db *mongo.Database, stats *statscache.Cache, feed *statscache.Feed, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog, Stats: stats, Feed: feed}
}

// loadStats fans out the independent counts and waits for all of them.
func (h *Handler) loadStats(ctx context.Context) (statscache.StatsData, error) {
	var data statscache.StatsData

	users := userstore.New(h.DB)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := users.Count(gctx)
		data.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := users.CountApproved(gctx)
		data.ApprovedUsers = n
		return err
	})
	g.Go(func() error {
		n, err := requeststore.New(h.DB).CountPending(gctx)
		data.PendingRequests = n
		return err
	})
	g.Go(func() error {
		n, err := clubstore.New(h.DB).Count(gctx)
		data.TotalClubs = n
		return err
	})
	g.Go(func() error {
		n, err := rosterstore.New(h.DB).Count(gctx)
		data.TotalMembers = n
		return err
	})
	if err := g.Wait(); err != nil {
		return statscache.StatsData{}, err
	}
	return data, nil
}

// ServeStats handles GET /api/admin/stats. The snapshot is cached with a
// short TTL; approvals, rejections, and deletions invalidate it early.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can view stats")
	if !g.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.Stats.Get(ctx, h.loadStats)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load admin stats", err, "Failed to load stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// ServeActivity handles GET /api/admin/activity, newest entries first.
func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	g := gates.RequireAdmin(w, r, "Only admins can view activity")
	if !g.OK {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Feed.Recent())
}
