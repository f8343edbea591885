// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values carried in session tokens. The role is computed once when a
// token is issued (admin when the email matches the configured admin
// address) and never re-derived from configuration on later requests.
const (
	RoleAdmin  = "admin"
	RoleLeader = "leader"
	RoleMember = "member"
)

// User represents a registered account: club leaders, their members, and
// the configured admin.
//
// Email is unique. Username is display-only and not unique. Phone is stored
// normalized to digits only and is unique when present.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username     string              `bson:"username" json:"username"`
	Email        string              `bson:"email" json:"email"`
	EmailCI      string              `bson:"email_ci" json:"-"` // lowercase, for case-insensitive lookups
	Phone        string              `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string              `bson:"password_hash" json:"-"`
	Role         string              `bson:"role" json:"role"` // admin | leader | member
	IsClubLeader bool                `bson:"is_club_leader" json:"isClubLeader"`
	IsApproved   bool                `bson:"is_approved" json:"isApproved"`
	ClubID       *primitive.ObjectID `bson:"club_id,omitempty" json:"clubId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
