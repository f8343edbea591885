package settingsstore

import (
	"context"
	"time"

	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the single global site_settings document.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

// Get returns the site settings. When no document has been saved yet the
// defaults apply: maintenance off, registrations open.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.SiteSettings{
			MaintenanceMode:       false,
			AllowNewRegistrations: true,
		}, nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	return settings, nil
}

// Save updates the site settings. Uses upsert so it works whether the
// document exists or not.
func (s *Store) Save(ctx context.Context, settings models.SiteSettings, updatedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"maintenance_mode":        settings.MaintenanceMode,
			"allow_new_registrations": settings.AllowNewRegistrations,
			"updated_at":              now,
			"updated_by_id":           updatedBy,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{}, update, opts)
	return err
}
