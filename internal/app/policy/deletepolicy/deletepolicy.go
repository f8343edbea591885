// Package deletepolicy implements cascading deletion of clubs and users.
//
// Cascades run their store operations sequentially with no compensating
// transaction. A failed step is logged and the cascade continues, so a
// mid-cascade failure leaves a partially-cleaned state. That is an accepted
// limitation; the log carries enough detail to finish the cleanup by hand.
package deletepolicy

import (
	"context"

	requeststore "github.com/DivyanshJain907/tracku/internal/app/store/accessrequests"
	attendancestore "github.com/DivyanshJain907/tracku/internal/app/store/attendance"
	clubstore "github.com/DivyanshJain907/tracku/internal/app/store/clubs"
	rosterstore "github.com/DivyanshJain907/tracku/internal/app/store/roster"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ClubDeletedReason is stamped on pending access requests force-rejected
// by a club cascade.
const ClubDeletedReason = "Club was deleted"

// Result reports what a cascade removed.
type Result struct {
	DeletedUsers   int64
	DeletedMembers int64
}

// DeleteClub removes a club and everything hanging off it: the roster
// (team members, member files, ledger entries), attendance created by or
// naming club members, access requests of club users, and the club's
// non-leader users. A surviving leader keeps their account with the club
// binding cleared. Returns clubstore.ErrNotFound when the club is absent.
func DeleteClub(ctx context.Context, db *mongo.Database, log *zap.Logger, clubID primitive.ObjectID) (Result, error) {
	clubs := clubstore.New(db)
	club, err := clubs.GetByID(ctx, clubID)
	if err != nil {
		return Result{}, err
	}

	var res Result
	var failed []string
	warn := func(step string, err error) {
		failed = append(failed, step)
		log.Warn("club cascade step failed",
			zap.String("step", step),
			zap.String("club_id", clubID.Hex()),
			zap.Error(err))
	}

	users := userstore.New(db)
	clubUsers, err := users.ListByClub(ctx, clubID)
	if err != nil {
		warn("list club users", err)
	}
	userIDs := make([]primitive.ObjectID, 0, len(clubUsers))
	for _, u := range clubUsers {
		userIDs = append(userIDs, u.ID)
	}

	roster := rosterstore.New(db)
	teamMembers, err := roster.ListByClub(ctx, clubID)
	if err != nil {
		warn("list roster", err)
	}
	memberIDs := make([]primitive.ObjectID, 0, len(teamMembers))
	for _, tm := range teamMembers {
		memberIDs = append(memberIDs, tm.ID)
	}

	if n, err := roster.DeleteByClub(ctx, clubID); err != nil {
		warn("delete roster", err)
	} else {
		res.DeletedMembers = n
	}

	att := attendancestore.New(db)
	if _, err := att.DeleteByClub(ctx, clubID); err != nil {
		warn("delete club attendance", err)
	}
	if _, err := att.DeleteByCreators(ctx, userIDs); err != nil {
		warn("delete attendance by creators", err)
	}
	if err := att.PullAttendees(ctx, memberIDs); err != nil {
		warn("strip attendee references", err)
	}

	reqs := requeststore.New(db)
	if _, err := reqs.RejectPendingForUsers(ctx, userIDs, ClubDeletedReason); err != nil {
		warn("reject pending access requests", err)
	}
	if _, err := reqs.DeleteForUsers(ctx, userIDs); err != nil {
		warn("delete access requests", err)
	}

	// The leader's account survives; everyone else in the club goes.
	nonLeaders := make([]primitive.ObjectID, 0, len(userIDs))
	for _, id := range userIDs {
		if id != club.LeaderID {
			nonLeaders = append(nonLeaders, id)
		}
	}
	if n, err := users.DeleteMany(ctx, nonLeaders); err != nil {
		warn("delete club users", err)
	} else {
		res.DeletedUsers = n
	}
	if _, err := users.ClearClub(ctx, clubID); err != nil {
		warn("clear leader club binding", err)
	}

	if err := clubs.Delete(ctx, clubID); err != nil {
		warn("delete club document", err)
		return res, err
	}

	if len(failed) > 0 {
		log.Warn("club cascade completed partially",
			zap.String("club_id", clubID.Hex()),
			zap.Strings("failed_steps", failed))
	} else {
		log.Info("club deleted",
			zap.String("club_id", clubID.Hex()),
			zap.Int64("deleted_users", res.DeletedUsers),
			zap.Int64("deleted_members", res.DeletedMembers))
	}
	return res, nil
}

// DeleteUser removes a user account. A club leader's deletion runs the
// full club cascade first; a non-leader's deletion removes only the data
// they produced (team members, attendance, access requests). Returns
// userstore.ErrNotFound when the user is absent.
func DeleteUser(ctx context.Context, db *mongo.Database, log *zap.Logger, userID primitive.ObjectID) (Result, error) {
	users := userstore.New(db)
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if clubID := leaderClubID(ctx, db, user); clubID != nil {
		r, err := DeleteClub(ctx, db, log, *clubID)
		if err != nil && err != clubstore.ErrNotFound {
			log.Warn("club cascade failed during user deletion",
				zap.String("user_id", userID.Hex()),
				zap.String("club_id", clubID.Hex()),
				zap.Error(err))
		}
		res = r
	} else {
		deleteOwnData(ctx, db, log, user)
	}

	if _, err := users.Delete(ctx, userID); err != nil {
		return res, err
	}
	res.DeletedUsers++
	log.Info("user deleted",
		zap.String("user_id", userID.Hex()),
		zap.Bool("was_leader", user.IsClubLeader))
	return res, nil
}

// leaderClubID resolves the club a leader's deletion should cascade into.
// Falls back to a leader lookup so an orphaned club (leader without a
// binding from a prior partial failure) is still cleaned up.
func leaderClubID(ctx context.Context, db *mongo.Database, user *models.User) *primitive.ObjectID {
	if !user.IsClubLeader {
		return nil
	}
	if user.ClubID != nil {
		return user.ClubID
	}
	club, err := clubstore.New(db).GetByLeader(ctx, user.ID)
	if err != nil {
		return nil
	}
	return &club.ID
}

// deleteOwnData removes the records a non-leader user created.
func deleteOwnData(ctx context.Context, db *mongo.Database, log *zap.Logger, user *models.User) {
	warn := func(step string, err error) {
		log.Warn("user cascade step failed",
			zap.String("step", step),
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
	}

	roster := rosterstore.New(db)
	own, err := roster.ListByCreator(ctx, user.ID)
	if err != nil {
		warn("list created team members", err)
	}
	memberIDs := make([]primitive.ObjectID, 0, len(own))
	for _, tm := range own {
		memberIDs = append(memberIDs, tm.ID)
	}

	if _, err := roster.DeleteByCreator(ctx, user.ID); err != nil {
		warn("delete created team members", err)
	}

	att := attendancestore.New(db)
	if _, err := att.DeleteByCreators(ctx, []primitive.ObjectID{user.ID}); err != nil {
		warn("delete created attendance", err)
	}
	if err := att.PullAttendees(ctx, memberIDs); err != nil {
		warn("strip attendee references", err)
	}

	if _, err := requeststore.New(db).DeleteForUsers(ctx, []primitive.ObjectID{user.ID}); err != nil {
		warn("delete access requests", err)
	}
}
