// internal/domain/models/roster.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberFile is the master identity record for a tracked person,
// independent of any one club snapshot.
type MemberFile struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	EnrollmentNumber string             `bson:"enrollment_number" json:"enrollmentNumber"`
	CreatedBy        primitive.ObjectID `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HistoryEntry is one point/hour delta in a team member's update history.
// Points and Hours are the deltas the caller sent, not running totals.
type HistoryEntry struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Points int                `bson:"points" json:"points"`
	Hours  float64            `bson:"hours" json:"hours"`
	Remark string             `bson:"remark,omitempty" json:"remark,omitempty"`
	Date   time.Time          `bson:"date" json:"date"`
	By     primitive.ObjectID `bson:"by" json:"by"`
	At     time.Time          `bson:"at" json:"at"`
}

// Remark is one free-text note on a team member, suffixed with the name of
// the updating user.
type Remark struct {
	Text string             `bson:"text" json:"text"`
	By   primitive.ObjectID `bson:"by" json:"by"`
	At   time.Time          `bson:"at" json:"at"`
}

// TeamMember is the per-club denormalized snapshot of a tracked person.
//
// Points and Hours are always the fold of the History ledger; every write
// that touches History recomputes them from scratch rather than adjusting
// the stored totals.
type TeamMember struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID           primitive.ObjectID `bson:"club_id" json:"clubId"`
	MemberFileID     primitive.ObjectID `bson:"member_file_id" json:"memberFileId"`
	Name             string             `bson:"name" json:"name"`
	NameKey          string             `bson:"name_key" json:"-"`
	EnrollmentNumber string             `bson:"enrollment_number" json:"enrollmentNumber"`
	Position         string             `bson:"position,omitempty" json:"position,omitempty"`
	Points           int                `bson:"points" json:"points"`
	Hours            float64            `bson:"hours" json:"hours"`
	Remarks          []Remark           `bson:"remarks,omitempty" json:"remarks,omitempty"`
	History          []HistoryEntry     `bson:"history,omitempty" json:"history,omitempty"`
	CreatedBy        primitive.ObjectID `bson:"created_by" json:"createdBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// MemberStatus is one append-only ledger entry recording a point/hour delta
// against a member file.
type MemberStatus struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberFileID primitive.ObjectID `bson:"member_file_id" json:"memberFileId"`
	TeamMemberID primitive.ObjectID `bson:"team_member_id" json:"teamMemberId"`
	ClubID       primitive.ObjectID `bson:"club_id" json:"clubId"`
	Points       int                `bson:"points" json:"points"`
	Hours        float64            `bson:"hours" json:"hours"`
	Remark       string             `bson:"remark,omitempty" json:"remark,omitempty"`
	Date         time.Time          `bson:"date" json:"date"`
	RecordedBy   primitive.ObjectID `bson:"recorded_by" json:"recordedBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
