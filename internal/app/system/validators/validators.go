// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// Core collections this app uses
	ensure("users", usersSchema())
	ensure("clubs", clubsSchema())
	ensure("access_requests", accessRequestsSchema())
	ensure("team_members", teamMembersSchema())

	// Ledger and attendance collections
	ensure("member_status", memberStatusSchema())
	ensure("attendance", attendanceSchema())

	// These don't strictly need validators; we still ensure the collections exist.
	ensure("member_files", nil)
	ensure("site_settings", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"username", "email", "email_ci", "role"},
			"properties": bson.M{
				"username":       bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":          bson.M{"bsonType": "string", "minLength": 3},
				"email_ci":       bson.M{"bsonType": "string", "minLength": 3},
				"phone":          bson.M{"bsonType": "string"},
				"password_hash":  bson.M{"bsonType": "string"},
				"role":           bson.M{"enum": bson.A{"admin", "leader", "member"}},
				"is_club_leader": bson.M{"bsonType": "bool"},
				"is_approved":    bson.M{"bsonType": "bool"},
				"club_id":        bson.M{"bsonType": bson.A{"objectId", "null"}},
			},
		},
	}
}

func clubsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_key", "leader_id"},
			"properties": bson.M{
				"name":      bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_key":  bson.M{"bsonType": "string", "minLength": 1},
				"leader_id": bson.M{"bsonType": "objectId"},
				"member_ids": bson.M{
					"bsonType": "array",
					"items":    bson.M{"bsonType": "objectId"},
				},
			},
		},
	}
}

func accessRequestsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "username", "email", "status"},
			"properties": bson.M{
				"user_id":          bson.M{"bsonType": "objectId"},
				"username":         bson.M{"bsonType": "string", "minLength": 1},
				"email":            bson.M{"bsonType": "string", "minLength": 3},
				"status":           bson.M{"enum": bson.A{"pending", "approved", "rejected"}},
				"rejection_reason": bson.M{"bsonType": "string"},
				"reviewed_by":      bson.M{"bsonType": bson.A{"objectId", "null"}},
				"reviewed_at":      bson.M{"bsonType": bson.A{"date", "null"}},
			},
		},
	}
}

func teamMembersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"club_id", "member_file_id", "name", "name_key", "created_by"},
			"properties": bson.M{
				"club_id":           bson.M{"bsonType": "objectId"},
				"member_file_id":    bson.M{"bsonType": "objectId"},
				"name":              bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_key":          bson.M{"bsonType": "string", "minLength": 1},
				"enrollment_number": bson.M{"bsonType": "string"},
				"position":          bson.M{"bsonType": "string"},
				"points":            bson.M{"bsonType": bson.A{"int", "long"}},
				"hours":             bson.M{"bsonType": bson.A{"double", "int", "long"}},
				"created_by":        bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func memberStatusSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"member_file_id", "team_member_id", "club_id", "recorded_by"},
			"properties": bson.M{
				"member_file_id": bson.M{"bsonType": "objectId"},
				"team_member_id": bson.M{"bsonType": "objectId"},
				"club_id":        bson.M{"bsonType": "objectId"},
				"points":         bson.M{"bsonType": bson.A{"int", "long"}},
				"hours":          bson.M{"bsonType": bson.A{"double", "int", "long"}},
				"remark":         bson.M{"bsonType": "string"},
				"date":           bson.M{"bsonType": "date"},
				"recorded_by":    bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func attendanceSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"club_id", "date", "created_by"},
			"properties": bson.M{
				"club_id": bson.M{"bsonType": "objectId"},
				"date":    bson.M{"bsonType": "date"},
				"attendee_ids": bson.M{
					"bsonType": "array",
					"items":    bson.M{"bsonType": "objectId"},
				},
				"created_by": bson.M{"bsonType": "objectId"},
			},
		},
	}
}
