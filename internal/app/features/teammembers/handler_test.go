package teammembers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	uierrors "github.com/DivyanshJain907/tracku/internal/app/features/errors"
	"github.com/DivyanshJain907/tracku/internal/app/features/teammembers"
	clubstore "github.com/DivyanshJain907/tracku/internal/app/store/clubs"
	rosterstore "github.com/DivyanshJain907/tracku/internal/app/store/roster"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"github.com/DivyanshJain907/tracku/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *teammembers.Handler {
	logger := zap.NewNop()
	return teammembers.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

func TestHandleCreate_LeaderAutoProvisionsClub(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	// A leader with no club yet: the first roster call provisions one.
	leader := f.CreateLeader(ctx, "Asha", "asha@example.com")

	h := newHandler(db)
	caller := testutil.TestUser{ID: leader.ID.Hex(), Username: leader.Username, Role: "leader", Approved: true}
	req := testutil.NewAuthenticatedJSONRequest("POST", "/api/team-members",
		`{"name":"Ravi","enrollmentNumber":"EN-1","points":5}`, caller)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var tm models.TeamMember
	if err := json.Unmarshal(rec.Body.Bytes(), &tm); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if tm.Points != 5 {
		t.Errorf("points: got %d, want 5", tm.Points)
	}

	club, err := clubstore.New(db).GetByLeader(ctx, leader.ID)
	if err != nil {
		t.Fatalf("club should have been provisioned: %v", err)
	}
	if club.Name != "Asha's Club" {
		t.Errorf("club name: got %q, want %q", club.Name, "Asha's Club")
	}
	if tm.ClubID != club.ID {
		t.Errorf("member bound to %s, want %s", tm.ClubID.Hex(), club.ID.Hex())
	}
}

func TestHandleCreate_DuplicateRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "ben", "ben@example.com")
	club := f.CreateClub(ctx, "Chess", leader.ID)
	f.CreateTeamMember(ctx, club.ID, leader.ID, "Ravi Kumar", "EN-1")

	h := newHandler(db)
	caller := testutil.LeaderUserWithID(leader.ID)

	// Same name, folded differently.
	req := testutil.NewAuthenticatedJSONRequest("POST", "/x",
		`{"name":" ravi  kumar ","enrollmentNumber":"EN-99"}`, caller)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	// Same enrollment number, different name.
	req = testutil.NewAuthenticatedJSONRequest("POST", "/x",
		`{"name":"Someone Else","enrollmentNumber":"EN-1"}`, caller)
	rec = testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleUpdate_AdditiveDeltasAndRemark(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "cara", "cara@example.com")
	club := f.CreateClub(ctx, "Drama", leader.ID)
	tm := f.CreateTeamMember(ctx, club.ID, leader.ID, "Mira", "EN-2")

	h := newHandler(db)
	caller := testutil.TestUser{ID: leader.ID.Hex(), Username: "cara", Role: "leader", Approved: true}

	req := testutil.NewAuthenticatedJSONRequest("PUT", "/x",
		`{"points":5,"hours":1.5,"remark":"workshop"}`, caller)
	req = testutil.WithChiURLParam(req, "id", tm.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	req = testutil.NewAuthenticatedJSONRequest("PUT", "/x", `{"points":-2}`, caller)
	req = testutil.WithChiURLParam(req, "id", tm.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got models.TeamMember
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Points != 3 {
		t.Errorf("points: got %d, want 3", got.Points)
	}
	if got.Hours != 1.5 {
		t.Errorf("hours: got %v, want 1.5", got.Hours)
	}
	if len(got.History) != 2 {
		t.Fatalf("history entries: got %d, want 2", len(got.History))
	}
	if len(got.Remarks) != 1 {
		t.Fatalf("remarks: got %d, want 1", len(got.Remarks))
	}
	if got.Remarks[0].Text != "workshop (by cara)" {
		t.Errorf("remark: got %q, want %q", got.Remarks[0].Text, "workshop (by cara)")
	}
}

func TestHandleUpdate_RemarkHTMLStripped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "dee", "dee@example.com")
	club := f.CreateClub(ctx, "Art", leader.ID)
	tm := f.CreateTeamMember(ctx, club.ID, leader.ID, "Omi", "EN-3")

	h := newHandler(db)
	caller := testutil.TestUser{ID: leader.ID.Hex(), Username: "dee", Role: "leader", Approved: true}
	req := testutil.NewAuthenticatedJSONRequest("PUT", "/x",
		`{"points":1,"remark":"<script>alert(1)</script>great work"}`, caller)
	req = testutil.WithChiURLParam(req, "id", tm.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got models.TeamMember
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got.Remarks) != 1 || got.Remarks[0].Text != "great work (by dee)" {
		t.Errorf("remark: got %+v, want stripped text", got.Remarks)
	}
}

func TestHandleDeleteHistory_RefoldsTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "eve", "eve@example.com")
	club := f.CreateClub(ctx, "Film", leader.ID)
	tm := f.CreateTeamMember(ctx, club.ID, leader.ID, "Pia", "EN-4")

	store := rosterstore.New(db)
	first, err := store.AppendHistory(ctx, tm.ID, models.HistoryEntry{Points: 5, Hours: 2, By: leader.ID})
	if err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}
	if _, err := store.AppendHistory(ctx, tm.ID, models.HistoryEntry{Points: 3, Hours: 1, By: leader.ID}); err != nil {
		t.Fatalf("AppendHistory: %v", err)
	}

	h := newHandler(db)
	caller := testutil.LeaderUserWithID(leader.ID)
	req := testutil.NewAuthenticatedRequest("DELETE", "/x", caller)
	req = testutil.WithChiURLParam(req, "id", tm.ID.Hex())
	req = testutil.WithChiURLParam(req, "updateId", first.History[0].ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDeleteHistory(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got models.TeamMember
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if got.Points != 3 || got.Hours != 1 {
		t.Errorf("totals after refold: got %d/%v, want 3/1", got.Points, got.Hours)
	}
	if len(got.History) != 1 {
		t.Errorf("history entries: got %d, want 1", len(got.History))
	}
}

func TestLeaderCannotTouchForeignRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	owner := f.CreateLeader(ctx, "fay", "fay@example.com")
	club := f.CreateClub(ctx, "Dance", owner.ID)
	tm := f.CreateTeamMember(ctx, club.ID, owner.ID, "Quin", "EN-5")

	intruder := f.CreateLeader(ctx, "gil", "gil@example.com")
	f.CreateClub(ctx, "Music", intruder.ID)

	h := newHandler(db)
	caller := testutil.LeaderUserWithID(intruder.ID)
	req := testutil.NewAuthenticatedRequest("GET", "/x", caller)
	req = testutil.WithChiURLParam(req, "id", tm.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeDetail(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewAuthenticatedRequest("DELETE", "/x", caller)
	req = testutil.WithChiURLParam(req, "id", tm.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestMemberRoleForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := newHandler(db)
	req := testutil.NewAuthenticatedJSONRequest("POST", "/x", `{"name":"X"}`, testutil.MemberUser())
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleCreate_UnapprovedLeaderForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	// A freshly registered leader holds a token with the leader role but no
	// approval yet; the roster must stay closed until an admin approves them
	// and they log in again.
	leader := f.CreateLeader(ctx, "ira", "ira@example.com")
	caller := testutil.UnapprovedLeaderUser()
	caller.ID = leader.ID.Hex()

	h := newHandler(db)
	req := testutil.NewAuthenticatedJSONRequest("POST", "/api/team-members",
		`{"name":"Ravi","enrollmentNumber":"EN-7"}`, caller)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "awaiting admin approval")

	// No club was provisioned as a side effect of the rejected call.
	if _, err := clubstore.New(db).GetByLeader(ctx, leader.ID); err != clubstore.ErrNotFound {
		t.Errorf("expected no club for unapproved leader, got err=%v", err)
	}
}

func TestServeList_AdminNeedsClubID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "hana", "hana@example.com")
	club := f.CreateClub(ctx, "Chess", leader.ID)
	f.CreateTeamMember(ctx, club.ID, leader.ID, "Sia", "EN-6")

	h := newHandler(db)
	req := testutil.NewAuthenticatedRequest("GET", "/api/team-members", testutil.AdminUser())
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	req = testutil.NewAuthenticatedRequest("GET", "/api/team-members?clubId="+club.ID.Hex(), testutil.AdminUser())
	rec = testutil.NewRecorder()
	h.ServeList(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var got []models.TeamMember
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("roster: got %d, want 1", len(got))
	}
}
