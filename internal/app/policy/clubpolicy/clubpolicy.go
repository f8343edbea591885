// Package clubpolicy owns the club assignment rules: every leader has
// exactly one personal club, provisioned lazily the first time they need
// one.
package clubpolicy

import (
	"context"
	"fmt"

	clubstore "github.com/DivyanshJain907/tracku/internal/app/store/clubs"
	userstore "github.com/DivyanshJain907/tracku/internal/app/store/users"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureClubFor returns the club a leader belongs to, provisioning one
// when missing. Idempotent: a bound club is returned unchanged; an
// existing club led by the user (orphaned by a prior partial failure) is
// re-bound before a new one is created.
func EnsureClubFor(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (*models.Club, error) {
	users := userstore.New(db)
	clubs := clubstore.New(db)

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.ClubID != nil {
		club, err := clubs.GetByID(ctx, *user.ClubID)
		if err == nil {
			return club, nil
		}
		if err != clubstore.ErrNotFound {
			return nil, err
		}
		// Dangling reference; fall through and re-provision.
	}

	club, err := clubs.GetByLeader(ctx, userID)
	if err == nil {
		if err := users.SetClub(ctx, userID, club.ID); err != nil {
			return nil, err
		}
		return club, nil
	}
	if err != clubstore.ErrNotFound {
		return nil, err
	}

	return ResolveClub(ctx, db, userID, fmt.Sprintf("%s's Club", user.Username), "")
}

// ResolveClub finds a club by the collision key of name, or creates one
// led by the user, then adds the user as a member and binds user.club.
// Registration and lazy provisioning both funnel through here so name
// variants like "Chess Club" and " chess club " merge into one club.
func ResolveClub(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, name, description string) (*models.Club, error) {
	users := userstore.New(db)
	clubs := clubstore.New(db)

	club, err := clubs.GetByNameKey(ctx, name)
	if err == clubstore.ErrNotFound {
		created, cerr := clubs.Create(ctx, models.Club{
			Name:        name,
			Description: description,
			LeaderID:    userID,
		})
		if cerr == clubstore.ErrDuplicateName {
			// Lost a creation race; the other writer's club wins.
			club, err = clubs.GetByNameKey(ctx, name)
			if err != nil {
				return nil, err
			}
		} else if cerr != nil {
			return nil, cerr
		} else {
			club = &created
		}
	} else if err != nil {
		return nil, err
	}

	if err := clubs.AddMember(ctx, club.ID, userID); err != nil {
		return nil, err
	}
	if err := users.SetClub(ctx, userID, club.ID); err != nil {
		return nil, err
	}
	return club, nil
}
