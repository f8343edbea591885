// Package rosterstore persists the club roster: per-club team member
// snapshots, the master member files behind them, and the append-only
// member_status ledger of point/hour deltas.
//
// The ledger is the source of truth for totals. Every write that touches
// a member's history refolds points and hours from the ledger instead of
// adjusting the stored totals in place.
package rosterstore

import (
	"context"
	"errors"
	"time"

	"github.com/DivyanshJain907/tracku/internal/app/system/normalize"
	"github.com/DivyanshJain907/tracku/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no team member matches the lookup.
	ErrNotFound = errors.New("team member not found")
	// ErrDuplicateMember is returned when the club already has a member
	// with the same name or enrollment number.
	ErrDuplicateMember = errors.New("a member with this name or enrollment number already exists in the club")
	// ErrEntryNotFound is returned when a history entry id does not exist
	// on the member.
	ErrEntryNotFound = errors.New("history entry not found")
)

type Store struct {
	members *mongo.Collection
	files   *mongo.Collection
	ledger  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		members: db.Collection("team_members"),
		files:   db.Collection("member_files"),
		ledger:  db.Collection("member_status"),
	}
}

// CreateMember adds a person to a club roster. A master member file is
// created for the person, then the per-club snapshot. Initial points and
// hours, when non-zero, become the first ledger entry so totals stay
// derivable from the ledger alone.
func (s *Store) CreateMember(ctx context.Context, tm models.TeamMember) (models.TeamMember, error) {
	tm.Name = normalize.Name(tm.Name)
	tm.NameKey = normalize.ClubKey(tm.Name)

	dup, err := s.ExistsNameOrEnrollment(ctx, tm.ClubID, tm.Name, tm.EnrollmentNumber)
	if err != nil {
		return models.TeamMember{}, err
	}
	if dup {
		return models.TeamMember{}, ErrDuplicateMember
	}

	now := time.Now().UTC()
	file := models.MemberFile{
		ID:               primitive.NewObjectID(),
		Name:             tm.Name,
		EnrollmentNumber: tm.EnrollmentNumber,
		CreatedBy:        tm.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.files.InsertOne(ctx, file); err != nil {
		return models.TeamMember{}, err
	}

	tm.ID = primitive.NewObjectID()
	tm.MemberFileID = file.ID
	tm.CreatedAt = now
	tm.UpdatedAt = now

	initialPoints := tm.Points
	initialHours := tm.Hours
	tm.Points = 0
	tm.Hours = 0
	tm.History = nil
	tm.Remarks = nil

	if _, err := s.members.InsertOne(ctx, tm); err != nil {
		return models.TeamMember{}, err
	}

	if initialPoints != 0 || initialHours != 0 {
		entry := models.HistoryEntry{
			ID:     primitive.NewObjectID(),
			Points: initialPoints,
			Hours:  initialHours,
			Remark: "Initial balance",
			Date:   now,
			By:     tm.CreatedBy,
			At:     now,
		}
		return s.AppendHistory(ctx, tm.ID, entry)
	}
	return tm, nil
}

// GetByID loads a team member by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TeamMember, error) {
	var tm models.TeamMember
	if err := s.members.FindOne(ctx, bson.M{"_id": id}).Decode(&tm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tm, nil
}

// ListByClub returns a club's roster sorted by name.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.TeamMember, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_key", Value: 1}})
	cur, err := s.members.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var roster []models.TeamMember
	if err := cur.All(ctx, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// ExistsNameOrEnrollment reports whether the club already has a member
// with the given name (case/whitespace-folded) or enrollment number.
func (s *Store) ExistsNameOrEnrollment(ctx context.Context, clubID primitive.ObjectID, name, enrollment string) (bool, error) {
	or := []bson.M{{"name_key": normalize.ClubKey(name)}}
	if enrollment != "" {
		or = append(or, bson.M{"enrollment_number": enrollment})
	}
	err := s.members.FindOne(ctx, bson.M{"club_id": clubID, "$or": or}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// UpdateDetails edits a member's identity fields without touching the
// ledger. The master member file is kept in sync.
func (s *Store) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, enrollment, position string) error {
	tm, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	name = normalize.Name(name)
	now := time.Now().UTC()
	res, err := s.members.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":              name,
		"name_key":          normalize.ClubKey(name),
		"enrollment_number": enrollment,
		"position":          position,
		"updated_at":        now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	_, err = s.files.UpdateOne(ctx, bson.M{"_id": tm.MemberFileID}, bson.M{"$set": bson.M{
		"name":              name,
		"enrollment_number": enrollment,
		"updated_at":        now,
	}})
	return err
}

// AppendHistory records a point/hour delta: one ledger entry, one history
// entry on the snapshot, an optional remark, then a refold of the totals.
// Ledger entries share the history entry's id so deletion can pair them.
func (s *Store) AppendHistory(ctx context.Context, id primitive.ObjectID, entry models.HistoryEntry) (models.TeamMember, error) {
	tm, err := s.GetByID(ctx, id)
	if err != nil {
		return models.TeamMember{}, err
	}

	now := time.Now().UTC()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Date.IsZero() {
		entry.Date = now
	}
	entry.At = now

	status := models.MemberStatus{
		ID:           entry.ID,
		MemberFileID: tm.MemberFileID,
		TeamMemberID: tm.ID,
		ClubID:       tm.ClubID,
		Points:       entry.Points,
		Hours:        entry.Hours,
		Remark:       entry.Remark,
		Date:         entry.Date,
		RecordedBy:   entry.By,
		CreatedAt:    now,
	}
	if _, err := s.ledger.InsertOne(ctx, status); err != nil {
		return models.TeamMember{}, err
	}

	update := bson.M{
		"$push": bson.M{"history": entry},
		"$set":  bson.M{"updated_at": now},
	}
	if entry.Remark != "" {
		update["$push"].(bson.M)["remarks"] = models.Remark{
			Text: entry.Remark,
			By:   entry.By,
			At:   now,
		}
	}
	if _, err := s.members.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return models.TeamMember{}, err
	}

	return s.refold(ctx, id)
}

// DeleteHistoryEntry removes one history entry and its paired ledger
// entry, prunes the remark that entry added, and refolds the totals.
func (s *Store) DeleteHistoryEntry(ctx context.Context, id, entryID primitive.ObjectID) (models.TeamMember, error) {
	tm, err := s.GetByID(ctx, id)
	if err != nil {
		return models.TeamMember{}, err
	}

	var removed *models.HistoryEntry
	for i := range tm.History {
		if tm.History[i].ID == entryID {
			removed = &tm.History[i]
			break
		}
	}
	if removed == nil {
		return models.TeamMember{}, ErrEntryNotFound
	}

	if _, err := s.ledger.DeleteOne(ctx, bson.M{"_id": entryID}); err != nil {
		return models.TeamMember{}, err
	}

	update := bson.M{
		"$pull": bson.M{"history": bson.M{"_id": entryID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	if removed.Remark != "" {
		// One remark per history entry; match on text and author so an
		// identical remark from another entry survives.
		update["$pull"].(bson.M)["remarks"] = bson.M{
			"text": removed.Remark,
			"by":   removed.By,
			"at":   removed.At,
		}
	}
	if _, err := s.members.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return models.TeamMember{}, err
	}

	return s.refold(ctx, id)
}

// refold recomputes a member's totals from the ledger and stores them.
func (s *Store) refold(ctx context.Context, id primitive.ObjectID) (models.TeamMember, error) {
	cur, err := s.ledger.Find(ctx, bson.M{"team_member_id": id})
	if err != nil {
		return models.TeamMember{}, err
	}
	defer cur.Close(ctx)

	var points int
	var hours float64
	for cur.Next(ctx) {
		var st models.MemberStatus
		if err := cur.Decode(&st); err != nil {
			return models.TeamMember{}, err
		}
		points += st.Points
		hours += st.Hours
	}
	if err := cur.Err(); err != nil {
		return models.TeamMember{}, err
	}

	var tm models.TeamMember
	err = s.members.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"points": points, "hours": hours}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.TeamMember{}, ErrNotFound
		}
		return models.TeamMember{}, err
	}
	return tm, nil
}

// Delete removes a team member, its ledger entries, and its member file.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	tm, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.ledger.DeleteMany(ctx, bson.M{"team_member_id": id}); err != nil {
		return err
	}
	if _, err := s.files.DeleteOne(ctx, bson.M{"_id": tm.MemberFileID}); err != nil {
		return err
	}
	res, err := s.members.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByClub removes the club's roster wholesale: team members, their
// ledger entries, and their member files. Returns the number of team
// members deleted.
func (s *Store) DeleteByClub(ctx context.Context, clubID primitive.ObjectID) (int64, error) {
	roster, err := s.ListByClub(ctx, clubID)
	if err != nil {
		return 0, err
	}
	fileIDs := make([]primitive.ObjectID, 0, len(roster))
	for _, tm := range roster {
		fileIDs = append(fileIDs, tm.MemberFileID)
	}

	if _, err := s.ledger.DeleteMany(ctx, bson.M{"club_id": clubID}); err != nil {
		return 0, err
	}
	if len(fileIDs) > 0 {
		if _, err := s.files.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": fileIDs}}); err != nil {
			return 0, err
		}
	}
	res, err := s.members.DeleteMany(ctx, bson.M{"club_id": clubID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByCreator returns the team members created by the given user.
func (s *Store) ListByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.TeamMember, error) {
	cur, err := s.members.Find(ctx, bson.M{"created_by": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var roster []models.TeamMember
	if err := cur.All(ctx, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// DeleteByCreator removes the team members created by the given user along
// with their ledger entries and member files. Returns the number of team
// members deleted.
func (s *Store) DeleteByCreator(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	roster, err := s.ListByCreator(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(roster) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(roster))
	fileIDs := make([]primitive.ObjectID, 0, len(roster))
	for _, tm := range roster {
		ids = append(ids, tm.ID)
		fileIDs = append(fileIDs, tm.MemberFileID)
	}

	if _, err := s.ledger.DeleteMany(ctx, bson.M{"team_member_id": bson.M{"$in": ids}}); err != nil {
		return 0, err
	}
	if _, err := s.files.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": fileIDs}}); err != nil {
		return 0, err
	}
	res, err := s.members.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of team members across all clubs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.members.CountDocuments(ctx, bson.M{})
}
