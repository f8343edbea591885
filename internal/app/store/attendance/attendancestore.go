package attendancestore

import (
	"context"
	"errors"
	"time"

	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no attendance record matches the lookup.
var ErrNotFound = errors.New("attendance record not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// Create inserts a new attendance record.
func (s *Store) Create(ctx context.Context, a models.Attendance) (models.Attendance, error) {
	a.ID = primitive.NewObjectID()
	if a.AttendeeIDs == nil {
		a.AttendeeIDs = []primitive.ObjectID{}
	}
	a.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Attendance{}, err
	}
	return a, nil
}

// GetByID loads an attendance record by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Attendance, error) {
	var a models.Attendance
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByClub returns a club's attendance records, newest first.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.Attendance
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a single attendance record.
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

// DeleteByClub removes all attendance records for the club.
func (s *Store) DeleteByClub(ctx context.Context, clubID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"club_id": clubID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCreators removes all records created by the given users. Used
// when deleting a user account along with the records it produced.
func (s *Store) DeleteByCreators(ctx context.Context, userIDs []primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"created_by": bson.M{"$in": userIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// PullAttendees removes the given team members from every record they
// appear in, then drops records left with no attendees.
func (s *Store) PullAttendees(ctx context.Context, memberIDs []primitive.ObjectID) error {
	if len(memberIDs) == 0 {
		return nil
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"attendee_ids": bson.M{"$in": memberIDs}},
		bson.M{"$pull": bson.M{"attendee_ids": bson.M{"$in": memberIDs}}},
	)
	if err != nil {
		return err
	}
	_, err = s.c.DeleteMany(ctx, bson.M{"attendee_ids": bson.M{"$size": 0}})
	return err
}
