package deletepolicy_test

import (
	"context"
	"testing"

	"github.com/DivyanshJain907/tracku/internal/app/policy/deletepolicy"
	requeststore "github.com/DivyanshJain907/tracku/internal/app/store/accessrequests"
	clubstore "github.com/DivyanshJain907/tracku/internal/app/store/clubs"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"github.com/DivyanshJain907/tracku/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func count(t *testing.T, ctx context.Context, db *mongo.Database, coll string, filter bson.M) int64 {
	t.Helper()
	n, err := db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("count %s: %v", coll, err)
	}
	return n
}

func TestDeleteClub_RemovesRosterFilesLedgerAndAttendance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "lena", "lena@example.com")
	club := f.CreateClub(ctx, "Robotics", leader.ID)

	tm1 := f.CreateTeamMember(ctx, club.ID, leader.ID, "Ana", "EN-1")
	tm2 := f.CreateTeamMember(ctx, club.ID, leader.ID, "Ben", "EN-2")
	f.CreateAttendance(ctx, club.ID, leader.ID, []primitive.ObjectID{tm1.ID, tm2.ID})

	// A record in another club naming one of our members must lose the
	// reference, and the other club's own roster must survive.
	other := f.CreateLeader(ctx, "omar", "omar@example.com")
	otherClub := f.CreateClub(ctx, "Chess", other.ID)
	keep := f.CreateTeamMember(ctx, otherClub.ID, other.ID, "Cara", "EN-3")
	f.CreateAttendance(ctx, otherClub.ID, other.ID, []primitive.ObjectID{keep.ID, tm1.ID})

	res, err := deletepolicy.DeleteClub(ctx, db, zap.NewNop(), club.ID)
	if err != nil {
		t.Fatalf("DeleteClub: %v", err)
	}
	if res.DeletedMembers != 2 {
		t.Errorf("deleted members: got %d, want 2", res.DeletedMembers)
	}

	if n := count(t, ctx, db, "team_members", bson.M{"club_id": club.ID}); n != 0 {
		t.Errorf("team members left: %d", n)
	}
	if n := count(t, ctx, db, "member_files", bson.M{"_id": bson.M{"$in": []primitive.ObjectID{tm1.MemberFileID, tm2.MemberFileID}}}); n != 0 {
		t.Errorf("member files left: %d", n)
	}
	if n := count(t, ctx, db, "member_status", bson.M{"club_id": club.ID}); n != 0 {
		t.Errorf("ledger entries left: %d", n)
	}
	if n := count(t, ctx, db, "attendance", bson.M{"attendee_ids": bson.M{"$in": []primitive.ObjectID{tm1.ID, tm2.ID}}}); n != 0 {
		t.Errorf("attendance still references deleted members: %d", n)
	}

	// The cross-club record survives with only its own member.
	if n := count(t, ctx, db, "attendance", bson.M{"attendee_ids": keep.ID}); n != 1 {
		t.Errorf("surviving attendance: got %d, want 1", n)
	}
	if _, err := clubstore.New(db).GetByID(ctx, otherClub.ID); err != nil {
		t.Errorf("other club should survive: %v", err)
	}

	if _, err := clubstore.New(db).GetByID(ctx, club.ID); err != clubstore.ErrNotFound {
		t.Errorf("club should be gone, got %v", err)
	}
}

func TestDeleteClub_LeaderSurvivesWithClearedBinding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "mia", "mia@example.com")
	club := f.CreateClub(ctx, "Drama", leader.ID)

	// A second user in the club is deleted with it.
	member := f.CreateUser(ctx, "nick", "nick@example.com", models.RoleMember, true)
	if err := userstore.New(db).SetClub(ctx, member.ID, club.ID); err != nil {
		t.Fatalf("SetClub: %v", err)
	}
	if err := clubstore.New(db).AddMember(ctx, club.ID, member.ID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	f.CreateAccessRequest(ctx, member, "")

	res, err := deletepolicy.DeleteClub(ctx, db, zap.NewNop(), club.ID)
	if err != nil {
		t.Fatalf("DeleteClub: %v", err)
	}
	if res.DeletedUsers != 1 {
		t.Errorf("deleted users: got %d, want 1", res.DeletedUsers)
	}

	if _, err := userstore.New(db).GetByID(ctx, member.ID); err != userstore.ErrNotFound {
		t.Errorf("club member should be gone, got %v", err)
	}
	surv, err := userstore.New(db).GetByID(ctx, leader.ID)
	if err != nil {
		t.Fatalf("leader lookup: %v", err)
	}
	if surv.ClubID != nil || surv.IsClubLeader {
		t.Errorf("leader binding should be cleared: clubID=%v isClubLeader=%v", surv.ClubID, surv.IsClubLeader)
	}

	if n := count(t, ctx, db, "access_requests", bson.M{"user_id": member.ID}); n != 0 {
		t.Errorf("member's access requests should be gone, got %d", n)
	}
}

func TestDeleteClub_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := deletepolicy.DeleteClub(ctx, db, zap.NewNop(), primitive.NewObjectID())
	if err != clubstore.ErrNotFound {
		t.Fatalf("got %v, want clubstore.ErrNotFound", err)
	}
}

func TestDeleteUser_LeaderCascadesIntoClub(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "pia", "pia@example.com")
	club := f.CreateClub(ctx, "Music", leader.ID)
	f.CreateTeamMember(ctx, club.ID, leader.ID, "Dev", "EN-9")

	res, err := deletepolicy.DeleteUser(ctx, db, zap.NewNop(), leader.ID)
	if err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if res.DeletedMembers != 1 {
		t.Errorf("deleted members: got %d, want 1", res.DeletedMembers)
	}
	if res.DeletedUsers != 1 {
		t.Errorf("deleted users (the leader): got %d, want 1", res.DeletedUsers)
	}

	if _, err := userstore.New(db).GetByID(ctx, leader.ID); err != userstore.ErrNotFound {
		t.Errorf("leader should be gone, got %v", err)
	}
	if _, err := clubstore.New(db).GetByID(ctx, club.ID); err != clubstore.ErrNotFound {
		t.Errorf("club should be gone, got %v", err)
	}
}

func TestDeleteUser_NonLeaderRemovesOwnDataOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreateLeader(ctx, "quin", "quin@example.com")
	club := f.CreateClub(ctx, "Film", leader.ID)
	keep := f.CreateTeamMember(ctx, club.ID, leader.ID, "Eva", "EN-10")

	member := f.CreateUser(ctx, "rob", "rob@example.com", models.RoleMember, true)
	own := f.CreateTeamMember(ctx, club.ID, member.ID, "Fay", "EN-11")
	f.CreateAttendance(ctx, club.ID, member.ID, []primitive.ObjectID{own.ID})
	f.CreateAccessRequest(ctx, member, "")

	if _, err := deletepolicy.DeleteUser(ctx, db, zap.NewNop(), member.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if n := count(t, ctx, db, "team_members", bson.M{"created_by": member.ID}); n != 0 {
		t.Errorf("member's team members should be gone, got %d", n)
	}
	if n := count(t, ctx, db, "attendance", bson.M{"created_by": member.ID}); n != 0 {
		t.Errorf("member's attendance should be gone, got %d", n)
	}
	if n := count(t, ctx, db, "access_requests", bson.M{"user_id": member.ID}); n != 0 {
		t.Errorf("member's access requests should be gone, got %d", n)
	}

	// The club and the leader's roster are untouched.
	if _, err := clubstore.New(db).GetByID(ctx, club.ID); err != nil {
		t.Errorf("club should survive: %v", err)
	}
	if n := count(t, ctx, db, "team_members", bson.M{"_id": keep.ID}); n != 1 {
		t.Errorf("leader's team member should survive, got %d", n)
	}
}

func TestDeleteClub_ForceRejectsPendingRequests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	leader := f.CreatePendingLeader(ctx, "sam", "sam@example.com")
	club := f.CreateClub(ctx, "Dance", leader.ID)
	f.CreateAccessRequest(ctx, leader, "")

	// An outsider's pending request is untouched.
	outsider := f.CreatePendingLeader(ctx, "tess", "tess@example.com")
	outReq := f.CreateAccessRequest(ctx, outsider, "")

	if _, err := deletepolicy.DeleteClub(ctx, db, zap.NewNop(), club.ID); err != nil {
		t.Fatalf("DeleteClub: %v", err)
	}

	// The leader survives the cascade, so their requests are deleted
	// along with the rest of the club users'.
	if n := count(t, ctx, db, "access_requests", bson.M{"user_id": leader.ID}); n != 0 {
		t.Errorf("leader's requests should be deleted, got %d", n)
	}

	got, err := requeststore.New(db).GetByID(ctx, outReq.ID)
	if err != nil {
		t.Fatalf("outsider request: %v", err)
	}
	if got.Status != models.RequestPending {
		t.Errorf("outsider request status: got %q, want pending", got.Status)
	}
}
