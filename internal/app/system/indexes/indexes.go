package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup. Each ensure* function is idempotent.
// Errors are aggregated so every problem is visible and startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureClubs(ctx, db); err != nil {
		problems = append(problems, "clubs: "+err.Error())
	}
	if err := ensureAccessRequests(ctx, db); err != nil {
		problems = append(problems, "access_requests: "+err.Error())
	}
	if err := ensureTeamMembers(ctx, db); err != nil {
		problems = append(problems, "team_members: "+err.Error())
	}
	if err := ensureMemberFiles(ctx, db); err != nil {
		problems = append(problems, "member_files: "+err.Error())
	}
	if err := ensureMemberStatus(ctx, db); err != nil {
		problems = append(problems, "member_status: "+err.Error())
	}
	if err := ensureAttendance(ctx, db); err != nil {
		problems = append(problems, "attendance: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensure(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		zap.L().Warn("index ensure failed",
			zap.String("collection", coll.Name()),
			zap.Error(err))
		return err
	}
	zap.L().Info("indexes ensured",
		zap.String("collection", coll.Name()),
		zap.Strings("names", names))
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("users"), []mongo.IndexModel{
		// Email is the login identity, unique case-insensitively via email_ci.
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_emailci"),
		},
		// Phone is unique among users that have one; sparse so admin
		// accounts without a phone don't collide on the empty value.
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("uniq_users_phone"),
		},
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}},
			Options: options.Index().SetName("idx_users_club"),
		},
		{
			Keys:    bson.D{{Key: "is_approved", Value: 1}},
			Options: options.Index().SetName("idx_users_approved"),
		},
	})
}

func ensureClubs(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("clubs"), []mongo.IndexModel{
		// name_key is the whitespace-stripped lowercase collision key.
		{
			Keys:    bson.D{{Key: "name_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_clubs_namekey"),
		},
		{
			Keys:    bson.D{{Key: "leader_id", Value: 1}},
			Options: options.Index().SetName("idx_clubs_leader"),
		},
	})
}

func ensureAccessRequests(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("access_requests"), []mongo.IndexModel{
		// Pending lookups by user drive both the login flow and admin review.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_reqs_user_status"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_reqs_status_created"),
		},
	})
}

func ensureTeamMembers(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("team_members"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_members_club_name"),
		},
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "enrollment_number", Value: 1}},
			Options: options.Index().SetName("idx_members_club_enrollment"),
		},
	})
}

func ensureMemberFiles(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("member_files"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}},
			Options: options.Index().SetName("idx_files_club"),
		},
	})
}

func ensureMemberStatus(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("member_status"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_file_id", Value: 1}},
			Options: options.Index().SetName("idx_status_memberfile"),
		},
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}},
			Options: options.Index().SetName("idx_status_club"),
		},
	})
}

func ensureAttendance(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db.Collection("attendance"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_attendance_club_date"),
		},
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}},
			Options: options.Index().SetName("idx_attendance_creator"),
		},
	})
}
