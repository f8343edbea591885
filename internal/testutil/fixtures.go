package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/DivyanshJain907/tracku/internal/app/system/normalize"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role and approval state.
func (f *Fixtures) CreateUser(ctx context.Context, username, email, role string, approved bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		Email:        normalize.Email(email),
		EmailCI:      normalize.Email(email),
		PasswordHash: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtest",
		Role:         role,
		IsApproved:   approved,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateLeader creates an approved leader user.
func (f *Fixtures) CreateLeader(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, email, models.RoleLeader, true)
}

// CreatePendingLeader creates a leader awaiting approval.
func (f *Fixtures) CreatePendingLeader(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, email, models.RoleLeader, false)
}

// CreateAdmin creates an approved admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, email, models.RoleAdmin, true)
}

// CreateClub creates a club led by the given user and links the leader
// to it the way registration does.
func (f *Fixtures) CreateClub(ctx context.Context, name string, leaderID primitive.ObjectID) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameKey:   normalize.ClubKey(name),
		LeaderID:  leaderID,
		MemberIDs: []primitive.ObjectID{leaderID},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	_, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": leaderID},
		bson.M{"$set": bson.M{"club_id": club.ID, "is_club_leader": true}},
	)
	if err != nil {
		f.t.Fatalf("failed to link leader to club: %v", err)
	}
	return club
}

// CreateAccessRequest creates a pending access request for the user.
func (f *Fixtures) CreateAccessRequest(ctx context.Context, user models.User, message string) models.AccessRequest {
	f.t.Helper()

	req := models.AccessRequest{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		Message:   message,
		Status:    models.RequestPending,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("access_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test access request: %v", err)
	}
	return req
}

// CreateTeamMember creates a team member with a backing member file.
func (f *Fixtures) CreateTeamMember(ctx context.Context, clubID, createdBy primitive.ObjectID, name, enrollment string) models.TeamMember {
	f.t.Helper()

	now := time.Now().UTC()
	file := models.MemberFile{
		ID:               primitive.NewObjectID(),
		Name:             name,
		EnrollmentNumber: enrollment,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("member_files").InsertOne(ctx, file); err != nil {
		f.t.Fatalf("failed to create test member file: %v", err)
	}

	tm := models.TeamMember{
		ID:               primitive.NewObjectID(),
		ClubID:           clubID,
		MemberFileID:     file.ID,
		Name:             name,
		NameKey:          normalize.ClubKey(name),
		EnrollmentNumber: enrollment,
		CreatedBy:        createdBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("team_members").InsertOne(ctx, tm); err != nil {
		f.t.Fatalf("failed to create test team member: %v", err)
	}
	return tm
}

// CreateAttendance creates an attendance record for the club.
func (f *Fixtures) CreateAttendance(ctx context.Context, clubID, createdBy primitive.ObjectID, attendees []primitive.ObjectID) models.Attendance {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Attendance{
		ID:          primitive.NewObjectID(),
		ClubID:      clubID,
		Date:        now,
		AttendeeIDs: attendees,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}
	if _, err := f.db.Collection("attendance").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test attendance: %v", err)
	}
	return a
}
