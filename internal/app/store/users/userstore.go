package userstore

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
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the email or phone is already taken.
	ErrDuplicate = errors.New("a user with this email or phone already exists")
	errBadRole   = errors.New(`role must be "admin"|"leader"|"member"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user after normalizing email and phone. The email
// keeps its submitted case; the email_ci shadow holds the folded form that
// backs the unique index and case-insensitive lookup.
// Returns ErrDuplicate when the email or phone is already taken.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Username = normalize.Name(u.Username)
	u.Email = normalize.Name(u.Email)
	u.EmailCI = normalize.Email(u.Email)
	u.Phone = normalize.Phone(u.Phone)

	switch u.Role {
	case models.RoleAdmin, models.RoleLeader, models.RoleMember:
	default:
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EmailOrPhoneExists reports whether any user already holds the email or,
// when phone is non-empty, the phone number.
func (s *Store) EmailOrPhoneExists(ctx context.Context, email, phone string) (bool, error) {
	or := []bson.M{{"email_ci": normalize.Email(email)}}
	if p := normalize.Phone(phone); p != "" {
		or = append(or, bson.M{"phone": p})
	}
	err := s.c.FindOne(ctx, bson.M{"$or": or}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// SetApproved flips the approval flag on a user.
func (s *Store) SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_approved": approved,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetClub links a user to a club and marks them a leader.
func (s *Store) SetClub(ctx context.Context, id, clubID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"club_id":        clubID,
		"is_club_leader": true,
		"updated_at":     time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearClub detaches every user linked to the club. Used during the club
// deletion cascade for accounts that survive the cascade.
func (s *Store) ClearClub(ctx context.Context, clubID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{"club_id": clubID}, bson.M{
		"$unset": bson.M{"club_id": ""},
		"$set": bson.M{
			"is_club_leader": false,
			"updated_at":     time.Now().UTC(),
		},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// List returns all users, newest first.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListByClub returns all users linked to the club.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a single user. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteMany removes the given users. Used by the club deletion cascade.
func (s *Store) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountApproved returns the number of approved users.
func (s *Store) CountApproved(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"is_approved": true})
}
