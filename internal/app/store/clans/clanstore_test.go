package clanstore_test

import (
	"errors"
	"testing"

	clanstore "github.com/dalemusser/ecopirates/internal/app/store/clans"
	"github.com/dalemusser/ecopirates/internal/app/system/indexes"
	"github.com/dalemusser/ecopirates/internal/app/system/paging"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/ecopirates/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newClan(name, faction string, members ...primitive.ObjectID) models.Clan {
	c := models.Clan{
		Name:      name,
		Faction:   faction,
		ColorHex:  "#123456",
		MemberIDs: members,
	}
	if len(members) > 0 {
		leader := members[0]
		c.LeaderID = &leader
	}
	return c
}

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clanstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	founder := primitive.NewObjectID()
	created, err := store.Create(ctx, newClan("Les Mouettes", models.FactionCorsaires, founder))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Les Mouettes" || got.Faction != models.FactionCorsaires {
		t.Errorf("clan: got %+v", got)
	}
	if got.LeaderID == nil || *got.LeaderID != founder {
		t.Errorf("leader: got %v, want %v", got.LeaderID, founder)
	}
	if len(got.MemberIDs) != 1 || got.MemberIDs[0] != founder {
		t.Errorf("members: got %v", got.MemberIDs)
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing: expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clanstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, newClan("Les Mouettes", models.FactionCorsaires))
	if err != nil {
		t.Fatalf("Create a failed: %v", err)
	}
	b, err := store.Create(ctx, newClan("Kraken Crew", models.FactionKrakens))
	if err != nil {
		t.Fatalf("Create b failed: %v", err)
	}

	missing := primitive.NewObjectID()
	got, err := store.GetByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, a.ID, missing})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("count: got %d, want 2", len(got))
	}
	if got[a.ID].Name != "Les Mouettes" || got[b.ID].Faction != models.FactionKrakens {
		t.Errorf("clans: got %+v", got)
	}
	if _, ok := got[missing]; ok {
		t.Error("unknown id should be absent")
	}

	empty, err := store.GetByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("no ids: got %v, %v", empty, err)
	}
}

func TestStore_Create_NameTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clanstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, newClan("Kraken Noir", models.FactionKrakens)); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newClan("KRAKEN NOIR", models.FactionCorsaires)); !errors.Is(err, errs.ErrNameTaken) {
		t.Errorf("expected ErrNameTaken, got %v", err)
	}
}

func TestStore_SaveRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clanstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	created, err := store.Create(ctx, newClan("Roster", models.FactionKrakens, a))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	c, _ := store.GetByID(ctx, created.ID)
	c.MemberIDs = append(c.MemberIDs, b)
	c.TotalPoints = 300
	c.ScoreActuel = 300
	if err := store.SaveRoster(ctx, c); err != nil {
		t.Fatalf("SaveRoster failed: %v", err)
	}
	if c.Version != 1 {
		t.Errorf("version: got %d, want 1", c.Version)
	}

	got, _ := store.GetByID(ctx, created.ID)
	if len(got.MemberIDs) != 2 || got.TotalPoints != 300 || got.ScoreActuel != 300 {
		t.Errorf("roster: got members=%v total=%d score=%d", got.MemberIDs, got.TotalPoints, got.ScoreActuel)
	}

	// Leaderless save unsets leader_id.
	got.LeaderID = nil
	got.MemberIDs = nil
	if err := store.SaveRoster(ctx, got); err != nil {
		t.Fatalf("leaderless SaveRoster failed: %v", err)
	}
	final, _ := store.GetByID(ctx, created.ID)
	if final.LeaderID != nil {
		t.Errorf("leader: got %v, want nil", final.LeaderID)
	}
	if len(final.MemberIDs) != 0 {
		t.Errorf("members: got %v, want empty", final.MemberIDs)
	}
}

func TestStore_SaveRoster_Conflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clanstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newClan("Race", models.FactionCorsaires, primitive.NewObjectID()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first, _ := store.GetByID(ctx, created.ID)
	second, _ := store.GetByID(ctx, created.ID)

	first.TotalPoints = 10
	if err := store.SaveRoster(ctx, first); err != nil {
		t.Fatalf("first SaveRoster failed: %v", err)
	}
	second.TotalPoints = 20
	if err := store.SaveRoster(ctx, second); !errors.Is(err, errs.ErrConflict) {
		t.Errorf("stale SaveRoster: expected ErrConflict, got %v", err)
	}

	ghost := newClan("Ghost", models.FactionCorsaires)
	ghost.ID = primitive.NewObjectID()
	if err := store.SaveRoster(ctx, &ghost); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing clan: expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListAndWarStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clanstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rich := fx.CreateUser(ctx, "Rich", 500)
	poor := fx.CreateUser(ctx, "Poor", 100)
	mid := fx.CreateUser(ctx, "Mid", 250)
	fx.CreateClan(ctx, "Alpha", models.FactionCorsaires, &poor)
	fx.CreateClan(ctx, "Bravo", models.FactionCorsaires, &rich)
	fx.CreateClan(ctx, "Charlie", models.FactionKrakens, &mid)

	all, err := store.List(ctx, "", paging.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	wantOrder := []string{"Bravo", "Charlie", "Alpha"}
	if len(all) != len(wantOrder) {
		t.Fatalf("count: got %d, want %d", len(all), len(wantOrder))
	}
	for i, name := range wantOrder {
		if all[i].Name != name {
			t.Errorf("position %d: got %q, want %q", i, all[i].Name, name)
		}
	}

	krakens, err := store.List(ctx, models.FactionKrakens, paging.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List by faction failed: %v", err)
	}
	if len(krakens) != 1 || krakens[0].Name != "Charlie" {
		t.Errorf("krakens: got %v", krakens)
	}

	// Limit 1 fetches one look-ahead row.
	firstPage, err := store.List(ctx, "", paging.Params{Limit: 1})
	if err != nil {
		t.Fatalf("List page failed: %v", err)
	}
	if len(firstPage) != 2 {
		t.Errorf("look-ahead: got %d rows, want 2", len(firstPage))
	}

	stats, err := store.WarStats(ctx)
	if err != nil {
		t.Fatalf("WarStats failed: %v", err)
	}
	want := []clanstore.FactionScore{
		{Faction: models.FactionCorsaires, Score: 600, Clans: 2},
		{Faction: models.FactionKrakens, Score: 250, Clans: 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("stats: got %v", stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d]: got %+v, want %+v", i, stats[i], want[i])
		}
	}
}

func TestStore_WarStats_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clanstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stats, err := store.WarStats(ctx)
	if err != nil {
		t.Fatalf("WarStats failed: %v", err)
	}
	if len(stats) != len(models.Factions) {
		t.Fatalf("expected every faction, got %v", stats)
	}
	for _, s := range stats {
		if s.Score != 0 || s.Clans != 0 {
			t.Errorf("empty stats: got %+v", s)
		}
	}
}
