package clubstore

import (
	"context"
	"errors"
	"time"

	"github.com/DivyanshJain907/tracku/internal/app/system/normalize"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no club matches the lookup.
	ErrNotFound = errors.New("club not found")
	// ErrDuplicateName is returned when a club with the same name key exists.
	ErrDuplicateName = errors.New("a club with this name already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clubs")}
}

// Create inserts a new club. The name key is derived from the name, so
// "Chess Club" and " chess club " collide.
func (s *Store) Create(ctx context.Context, club models.Club) (models.Club, error) {
	club.ID = primitive.NewObjectID()
	club.Name = normalize.Name(club.Name)
	club.NameKey = normalize.ClubKey(club.Name)
	if club.MemberIDs == nil {
		club.MemberIDs = []primitive.ObjectID{}
	}

	now := time.Now().UTC()
	club.CreatedAt = now
	club.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, club); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, ErrDuplicateName
		}
		return models.Club{}, err
	}
	return club, nil
}

// GetByID loads a club by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error) {
	var club models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&club); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &club, nil
}

// GetByNameKey resolves a club by the collision key of its name.
func (s *Store) GetByNameKey(ctx context.Context, name string) (*models.Club, error) {
	var club models.Club
	key := normalize.ClubKey(name)
	if err := s.c.FindOne(ctx, bson.M{"name_key": key}).Decode(&club); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &club, nil
}

// GetByLeader returns the club led by the given user.
func (s *Store) GetByLeader(ctx context.Context, leaderID primitive.ObjectID) (*models.Club, error) {
	var club models.Club
	if err := s.c.FindOne(ctx, bson.M{"leader_id": leaderID}).Decode(&club); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &club, nil
}

// List returns all clubs sorted by name.
func (s *Store) List(ctx context.Context) ([]models.Club, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_key", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// AddMember adds a user to the club's member list. $addToSet keeps the
// operation idempotent.
func (s *Store) AddMember(ctx context.Context, clubID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": clubID}, bson.M{
		"$addToSet": bson.M{"member_ids": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember pulls a user out of the club's member list.
func (s *Store) RemoveMember(ctx context.Context, clubID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": clubID}, bson.M{
		"$pull": bson.M{"member_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the club document. Callers handle the cascade.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of clubs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
