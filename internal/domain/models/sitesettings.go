// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings is the single global settings document.
//
// MaintenanceMode blocks registration with 503. AllowNewRegistrations,
// when false, blocks registration with 403. Defaults (no document yet):
// maintenance off, registrations open.
type SiteSettings struct {
	ID                    primitive.ObjectID  `bson:"_id,omitempty" json:"-"`
	MaintenanceMode       bool                `bson:"maintenance_mode" json:"maintenanceMode"`
	AllowNewRegistrations bool                `bson:"allow_new_registrations" json:"allowNewRegistrations"`
	UpdatedAt             *time.Time          `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
	UpdatedByID           *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updatedById,omitempty"`
}
