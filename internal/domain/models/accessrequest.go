// internal/domain/models/accessrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Access request lifecycle. Approved and rejected are terminal; the only
// bulk transition is the force-reject applied when a club is deleted.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// DefaultRejectionReason is used when an admin rejects without a reason.
const DefaultRejectionReason = "Not approved"

// AccessRequest tracks one user's pending/approved/rejected request for
// platform access. Username, email, and phone are denormalized from the
// user at creation time so the admin queue renders without joins.
type AccessRequest struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"userId"`
	Username        string              `bson:"username" json:"username"`
	Email           string              `bson:"email" json:"email"`
	Phone           string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Message         string              `bson:"message,omitempty" json:"message,omitempty"`
	Status          string              `bson:"status" json:"status"` // pending | approved | rejected
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejectionReason,omitempty"`
	ReviewedBy      *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time          `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
