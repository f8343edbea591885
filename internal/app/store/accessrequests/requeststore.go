package requeststore

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

var (
	// ErrNotFound is returned when no request matches the lookup.
	ErrNotFound = errors.New("access request not found")
	// ErrAlreadyReviewed is returned when an approve or reject races a
	// prior review. Approved and rejected are terminal states.
	ErrAlreadyReviewed = errors.New("access request already reviewed")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("access_requests")}
}

// Create inserts a new pending request.
func (s *Store) Create(ctx context.Context, req models.AccessRequest) (models.AccessRequest, error) {
	req.ID = primitive.NewObjectID()
	req.Status = models.RequestPending
	req.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, req); err != nil {
		return models.AccessRequest{}, err
	}
	return req, nil
}

// GetByID loads a request by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AccessRequest, error) {
	var req models.AccessRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindPendingByUser returns the user's pending request, if any.
func (s *Store) FindPendingByUser(ctx context.Context, userID primitive.ObjectID) (*models.AccessRequest, error) {
	var req models.AccessRequest
	filter := bson.M{"user_id": userID, "status": models.RequestPending}
	if err := s.c.FindOne(ctx, filter).Decode(&req); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindOrCreatePending returns the user's pending request, creating one
// when none exists. Keeps the queue free of duplicate pending entries for
// the same user.
func (s *Store) FindOrCreatePending(ctx context.Context, req models.AccessRequest) (*models.AccessRequest, error) {
	existing, err := s.FindPendingByUser(ctx, req.UserID)
	if err == nil {
		return existing, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	created, err := s.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListByUser returns all of a user's requests, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AccessRequest, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

// List returns requests, newest first. An empty status returns all.
func (s *Store) List(ctx context.Context, status string) ([]models.AccessRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.AccessRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []models.AccessRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Approve marks a pending request approved. The filter includes the
// pending status, so a concurrent approve or reject loses the race and
// gets ErrAlreadyReviewed instead of silently double-reviewing.
func (s *Store) Approve(ctx context.Context, id, reviewerID primitive.ObjectID) error {
	return s.review(ctx, id, bson.M{
		"status":      models.RequestApproved,
		"reviewed_by": reviewerID,
		"reviewed_at": time.Now().UTC(),
	})
}

// Reject marks a pending request rejected. An empty reason falls back to
// the default.
func (s *Store) Reject(ctx context.Context, id, reviewerID primitive.ObjectID, reason string) error {
	if reason == "" {
		reason = models.DefaultRejectionReason
	}
	return s.review(ctx, id, bson.M{
		"status":           models.RequestRejected,
		"rejection_reason": reason,
		"reviewed_by":      reviewerID,
		"reviewed_at":      time.Now().UTC(),
	})
}

func (s *Store) review(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	filter := bson.M{"_id": id, "status": models.RequestPending}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish missing from already-reviewed for the caller.
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return ErrAlreadyReviewed
	}
	return nil
}

// RejectPendingForUsers force-rejects pending requests belonging to the
// given users. Used by the club deletion cascade.
func (s *Store) RejectPendingForUsers(ctx context.Context, userIDs []primitive.ObjectID, reason string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"user_id": bson.M{"$in": userIDs},
		"status":  models.RequestPending,
	}
	res, err := s.c.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"status":           models.RequestRejected,
		"rejection_reason": reason,
		"reviewed_at":      time.Now().UTC(),
	}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteForUsers removes all requests belonging to the given users.
func (s *Store) DeleteForUsers(ctx context.Context, userIDs []primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountPending returns the number of pending requests.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.RequestPending})
}
