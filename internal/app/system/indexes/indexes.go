// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// index is one desired index. Names are part of the contract: an index on
// the same keys under another name, or with other uniqueness, is replaced.
type index struct {
	name   string
	keys   bson.D
	unique bool
}

func asc(field string) bson.E  { return bson.E{Key: field, Value: 1} }
func desc(field string) bson.E { return bson.E{Key: field, Value: -1} }

var desired = []struct {
	collection string
	indexes    []index
}{
	{"users", []index{
		// Pseudos are unique after case/diacritic folding.
		{"uniq_users_pseudoci", bson.D{asc("pseudo_ci")}, true},
		{"uniq_users_email", bson.D{asc("email")}, true},
		// Top contributors leaderboard.
		{"idx_users_wallet_desc__id", bson.D{desc("wallet_points"), asc("_id")}, false},
		{"idx_users_clan", bson.D{asc("clan_id")}, false},
		// Bonus expiry sweep.
		{"idx_users_bonus_until", bson.D{asc("bonus.until")}, false},
	}},
	{"clans", []index{
		{"uniq_clans_nameci", bson.D{asc("name_ci")}, true},
		// War stats group by faction; lists sort by score.
		{"idx_clans_faction_score", bson.D{asc("faction"), desc("score_actuel")}, false},
		{"idx_clans_total_desc__id", bson.D{desc("total_points"), asc("_id")}, false},
	}},
	{"events", []index{
		{"idx_events_created_desc", bson.D{desc("created_at"), desc("_id")}, false},
		{"idx_events_creator", bson.D{asc("creator_id")}, false},
	}},
	{"audit_events", []index{
		{"idx_audit_created", bson.D{desc("created_at")}, false},
		{"idx_audit_user_created", bson.D{asc("user_id"), desc("created_at")}, false},
		{"idx_audit_clan_created", bson.D{asc("clan_id"), desc("created_at")}, false},
		{"idx_audit_type_created", bson.D{asc("event_type"), desc("created_at")}, false},
	}},
}

// EnsureAll reconciles the indexes of every game collection. It is
// idempotent and reports every failure, not just the first, so startup can
// fail with the whole picture.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var errs []error
	for _, d := range desired {
		coll := db.Collection(d.collection)
		current := existing(ctx, coll)
		for _, ix := range d.indexes {
			if err := reconcile(ctx, coll, current, ix); err != nil {
				errs = append(errs, fmt.Errorf("%s(%s): %w", d.collection, ix.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

type storedIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

// signature identifies an index by its ordered key spec.
func signature(keys bson.D) string {
	var b strings.Builder
	for i, kv := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%s:%v", kv.Key, kv.Value)
	}
	return b.String()
}

// existing maps key signatures to the indexes already on coll. A missing
// collection yields an empty map; CreateOne will create it.
func existing(ctx context.Context, coll *mongo.Collection) map[string]storedIndex {
	out := map[string]storedIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)

	var all []storedIndex
	if err := cur.All(ctx, &all); err != nil {
		zap.L().Warn("failed to read existing indexes",
			zap.String("collection", coll.Name()), zap.Error(err))
		return out
	}
	for _, ix := range all {
		out[signature(ix.Key)] = ix
	}
	return out
}

func reconcile(ctx context.Context, coll *mongo.Collection, current map[string]storedIndex, ix index) error {
	sig := signature(ix.keys)
	log := zap.L().With(
		zap.String("collection", coll.Name()),
		zap.String("name", ix.name),
		zap.String("keys", sig),
		zap.Bool("unique", ix.unique))

	if have, ok := current[sig]; ok {
		if have.Name == ix.name && have.Unique == ix.unique {
			log.Debug("index up to date")
			return nil
		}
		log.Info("replacing index", zap.String("existing", have.Name))
		if _, err := coll.Indexes().DropOne(ctx, have.Name); err != nil {
			return fmt.Errorf("drop %s: %w", have.Name, err)
		}
	}

	start := time.Now()
	opts := options.Index().SetName(ix.name)
	if ix.unique {
		opts.SetUnique(true)
	}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: ix.keys, Options: opts}); err != nil {
		if ix.unique && mongo.IsDuplicateKeyError(err) {
			return errors.New("cannot create unique index: duplicates present")
		}
		return err
	}
	log.Info("index created", zap.Duration("took", time.Since(start)))
	return nil
}
