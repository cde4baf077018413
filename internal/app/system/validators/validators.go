// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/ecopirates/internal/domain/ledger"
	"github.com/dalemusser/ecopirates/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll makes sure every game collection exists with its JSON-Schema
// validator. New collections are created with the validator attached;
// existing ones are updated with collMod. Deployments without validator
// support (some DocumentDB versions) get plain collections and a log line.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for _, c := range []struct {
		name   string
		schema bson.M
	}{
		{"users", usersSchema()},
		{"clans", clansSchema()},
		{"events", eventsSchema()},
		{"audit_events", nil}, // append-only
	} {
		if err := ensure(ctx, db, c.name, c.schema); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

func ensure(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	log := zap.L().With(zap.String("collection", name))

	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if len(names) == 0 {
		err := create(ctx, db, name, schema)
		switch {
		case err == nil:
			log.Info("created collection", zap.Bool("validator", schema != nil))
			return nil
		case alreadyExists(err):
			// Lost a race with another instance; fall through to collMod.
		case schema != nil && unsupported(err):
			log.Info("validator skipped (unsupported)")
			return ignoreExists(db.CreateCollection(ctx, name))
		default:
			return err
		}
	}
	if schema == nil {
		return nil
	}

	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		if unsupported(err) {
			log.Info("validator skipped (unsupported)")
			return nil
		}
		return err
	}
	log.Info("validator ensured")
	return nil
}

func create(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	opts := options.CreateCollection()
	if schema != nil {
		opts.SetValidator(schema).
			SetValidationLevel("moderate").
			SetValidationAction("error")
	}
	return db.CreateCollection(ctx, name, opts)
}

func ignoreExists(err error) error {
	if alreadyExists(err) {
		return nil
	}
	return err
}

// Server error codes: NamespaceExists, CommandNotFound, NotImplemented.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

func alreadyExists(err error) bool {
	return matches(err, []int32{codeNamespaceExists}, "already exists", "namespace exists")
}

func unsupported(err error) bool {
	return matches(err, []int32{codeCommandNotFound, codeNotImplemented},
		"no such command", "not implemented", "not supported")
}

// matches reports whether err is a command error with one of codes, or its
// text contains one of phrases (case-insensitive).
func matches(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// Non-empty string with at least one non-space character.
var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func intAtLeast(min int) bson.M {
	return bson.M{"bsonType": bson.A{"int", "long"}, "minimum": min}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"pseudo", "pseudo_ci", "email", "wallet_points", "xp", "level"},
			"properties": bson.M{
				"pseudo":          nonBlank,
				"pseudo_ci":       nonBlank,
				"email":           nonBlank,
				"wallet_points":   intAtLeast(0),
				"xp":              intAtLeast(0),
				"level":           intAtLeast(1),
				"clan_id":         bson.M{"bsonType": bson.A{"objectId", "null"}},
				"inventory_cards": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
				"history": bson.M{
					"bsonType": "array",
					"maxItems": ledger.MaxItems,
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"id", "action", "date"},
						"properties": bson.M{
							"id":     bson.M{"bsonType": "string"},
							"action": nonBlank,
							"date":   bson.M{"bsonType": "string"},
							"gain":   bson.M{"bsonType": "string"},
						},
					},
				},
			},
		},
	}
}

func clansSchema() bson.M {
	factions := bson.A{}
	for _, f := range models.Factions {
		factions = append(factions, f)
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "faction", "member_ids", "total_points", "score_actuel"},
			"properties": bson.M{
				"name":         nonBlank,
				"name_ci":      nonBlank,
				"faction":      bson.M{"enum": factions},
				"color_hex":    bson.M{"bsonType": "string", "pattern": "^#([0-9a-f]{3}|[0-9a-f]{6})$"},
				"member_ids":   bson.M{"bsonType": "array", "uniqueItems": true, "items": bson.M{"bsonType": "objectId"}},
				"leader_id":    bson.M{"bsonType": bson.A{"objectId", "null"}},
				"total_points": intAtLeast(0),
				"score_actuel": intAtLeast(0),
				"version":      intAtLeast(0),
			},
		},
	}
}

func eventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "lat", "lon", "creator_id", "created_at"},
			"properties": bson.M{
				"title":               nonBlank,
				"lat":                 bson.M{"bsonType": "number", "minimum": -90, "maximum": 90},
				"lon":                 bson.M{"bsonType": "number", "minimum": -180, "maximum": 180},
				"estimated_weight_kg": bson.M{"bsonType": "number", "minimum": 0},
				"creator_id":          bson.M{"bsonType": "objectId"},
				"validated":           bson.M{"bsonType": "bool"},
				"created_at":          bson.M{"bsonType": "date"},
			},
		},
	}
}
