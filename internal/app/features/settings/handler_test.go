package settings_test

import (
	"encoding/json"
	"net/http"
	"testing"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/features/settings"
	"github.com/DivyanshJain907/tracku/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *settings.Handler {
	logger := zap.NewNop()
	return settings.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func TestServeGet_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest("GET", "/api/admin/settings", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeGet(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var got struct {
		MaintenanceMode       bool `json:"maintenanceMode"`
		AllowNewRegistrations bool `json:"allowNewRegistrations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.MaintenanceMode {
		t.Error("maintenance mode should default to off")
	}
	if !got.AllowNewRegistrations {
		t.Error("registrations should default to open")
	}
}

func TestHandleUpdate_RoundTrips(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)
	req := testutil.NewAuthenticatedJSONRequest("PUT", "/api/admin/settings",
		`{"maintenanceMode":true,"allowNewRegistrations":false}`, testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewAuthenticatedRequest("GET", "/api/admin/settings", testutil.AdminUser())
	rec = testutil.NewRecorder()
	h.ServeGet(rec, req)

	var got struct {
		MaintenanceMode       bool `json:"maintenanceMode"`
		AllowNewRegistrations bool `json:"allowNewRegistrations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !got.MaintenanceMode || got.AllowNewRegistrations {
		t.Errorf("settings did not round-trip: %+v", got)
	}
}

func TestSettings_AdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest("GET", "/x", testutil.LeaderUser())
	rec := testutil.NewRecorder()
	h.ServeGet(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewAuthenticatedJSONRequest("PUT", "/x", `{"maintenanceMode":true}`, testutil.LeaderUser())
	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}
