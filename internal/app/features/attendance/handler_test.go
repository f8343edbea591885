package attendance_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/DivyanshJain907/tracku/internal/app/features/attendance"
	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"github.com/DivyanshJain907/tracku/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *attendance.Handler {
	logger := zap.NewNop()
	return attendance.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func TestHandleCreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "ana", "ana@example.com")
	club := f.CreateClub(ctx, "Robotics", leader.ID)
	tm := f.CreateTeamMember(ctx, club.ID, leader.ID, "Ravi", "EN-1")

	h := newHandler(db)
	caller := testutil.LeaderUserWithID(leader.ID)

	body := fmt.Sprintf(`{"date":"2026-08-01","attendeeIds":[%q]}`, tm.ID.Hex())
	req := testutil.NewAuthenticatedJSONRequest("POST", "/api/attendance", body, caller)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	req = testutil.NewAuthenticatedRequest("GET", "/api/attendance", caller)
	rec = testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got []models.Attendance
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records: got %d, want 1", len(got))
	}
	if len(got[0].AttendeeIDs) != 1 || got[0].AttendeeIDs[0] != tm.ID {
		t.Errorf("attendees: got %v", got[0].AttendeeIDs)
	}
}

func TestHandleCreate_BadAttendeeID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "ben", "ben@example.com")
	f.CreateClub(ctx, "Chess", leader.ID)

	h := newHandler(db)
	caller := testutil.LeaderUserWithID(leader.ID)
	req := testutil.NewAuthenticatedJSONRequest("POST", "/x", `{"attendeeIds":["nope"]}`, caller)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleDelete_ForeignClubForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	owner := f.CreateLeader(ctx, "cara", "cara@example.com")
	club := f.CreateClub(ctx, "Drama", owner.ID)
	rec0 := f.CreateAttendance(ctx, club.ID, owner.ID, nil)

	intruder := f.CreateLeader(ctx, "dee", "dee@example.com")
	f.CreateClub(ctx, "Art", intruder.ID)

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest("DELETE", "/x", testutil.LeaderUserWithID(intruder.ID))
	req = testutil.WithChiURLParam(req, "id", rec0.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// The owner can delete it.
	req = testutil.NewAuthenticatedRequest("DELETE", "/x", testutil.LeaderUserWithID(owner.ID))
	req = testutil.WithChiURLParam(req, "id", rec0.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusOK)
}

func TestHandleDelete_UnknownID(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest("DELETE", "/x", testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", primitive.NewObjectID().Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
