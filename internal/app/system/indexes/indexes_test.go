package indexes_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dalemusser/ecopirates/internal/app/system/indexes"
	"github.com/dalemusser/ecopirates/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, coll *mongo.Collection) map[string]bool {
	t.Helper()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":        {"uniq_users_pseudoci", "uniq_users_email", "idx_users_wallet_desc__id", "idx_users_clan", "idx_users_bonus_until"},
		"clans":        {"uniq_clans_nameci", "idx_clans_faction_score", "idx_clans_total_desc__id"},
		"events":       {"idx_events_created_desc", "idx_events_creator"},
		"audit_events": {"idx_audit_created", "idx_audit_user_created", "idx_audit_clan_created", "idx_audit_type_created"},
	}
	for coll, want := range expected {
		names := indexNames(t, ctx, db.Collection(coll))
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s collection", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesMisnamedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys and options as uniq_clans_nameci, different name.
	_, err := db.Collection("clans").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("legacy_name"),
	})
	if err != nil {
		t.Fatalf("create legacy index failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db.Collection("clans"))
	if names["legacy_name"] {
		t.Error("legacy index should have been replaced")
	}
	if !names["uniq_clans_nameci"] {
		t.Error("expected uniq_clans_nameci after reconciliation")
	}
}

func TestEnsureAll_UniqueClanNameEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("clans").InsertOne(ctx, bson.M{"name": "Kraken", "name_ci": "kraken"}); err != nil {
		t.Fatalf("Insert clan failed: %v", err)
	}
	_, err := db.Collection("clans").InsertOne(ctx, bson.M{"name": "KRAKEN", "name_ci": "kraken"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error on clans.name_ci, got %v", err)
	}
}

func TestEnsureAll_MakesIndexUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Right name, missing the unique option.
	users := db.Collection("users")
	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_users_email"),
	}); err != nil {
		t.Fatalf("create non-unique index failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := users.InsertOne(ctx, bson.M{"email": "jack@sea.com", "pseudo_ci": "jack"}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	_, err := users.InsertOne(ctx, bson.M{"email": "jack@sea.com", "pseudo_ci": "jack2"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error on users.email, got %v", err)
	}
}

func TestEnsureAll_ReportsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	clans := db.Collection("clans")
	for _, name := range []string{"Kraken", "KRAKEN"} {
		if _, err := clans.InsertOne(ctx, bson.M{"name": name, "name_ci": "kraken"}); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	err := indexes.EnsureAll(ctx, db)
	if err == nil || !strings.Contains(err.Error(), "uniq_clans_nameci") {
		t.Errorf("expected an error naming uniq_clans_nameci, got %v", err)
	}
}
