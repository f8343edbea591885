// internal/domain/models/club.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Club is an organizational unit with one leader and many members.
//
// NameKey is the collision key for club names: lowercased with all
// whitespace stripped, so "Chess Club" and " chess club " resolve to the
// same club rather than two documents.
type Club struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameKey     string               `bson:"name_key" json:"-"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	LeaderID    primitive.ObjectID   `bson:"leader_id" json:"leaderId"`
	MemberIDs   []primitive.ObjectID `bson:"member_ids" json:"memberIds"`
	ImagePath   string               `bson:"image_path,omitempty" json:"imagePath,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
