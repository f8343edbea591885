// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance records which team members were present at a club on a date.
// An attendance record with no remaining attendees is dropped during
// cascade cleanup rather than kept empty.
type Attendance struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ClubID      primitive.ObjectID   `bson:"club_id" json:"clubId"`
	Date        time.Time            `bson:"date" json:"date"`
	AttendeeIDs []primitive.ObjectID `bson:"attendee_ids" json:"attendeeIds"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
