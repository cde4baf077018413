package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a level-1 user with the given pseudo and wallet points.
// The email is derived from the pseudo.
func (f *Fixtures) CreateUser(ctx context.Context, pseudo string, wallet int) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.NewUser(pseudo, strings.ToLower(pseudo)+"@test.com")
	u.ID = primitive.NewObjectID()
	u.PseudoCI = text.Fold(pseudo)
	u.WalletPoints = wallet
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateClan inserts a clan whose roster is members (in order) with the
// first member as leader. Each member's clan_id is set and the members'
// current wallet points are credited to the clan counters.
func (f *Fixtures) CreateClan(ctx context.Context, name, faction string, members ...*models.User) models.Clan {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Clan{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Faction:   faction,
		ColorHex:  "#1e90ff",
		MemberIDs: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, m := range members {
		c.MemberIDs = append(c.MemberIDs, m.ID)
		if i == 0 {
			leader := m.ID
			c.LeaderID = &leader
		}
		c.TotalPoints += m.WalletPoints
		c.ScoreActuel += m.WalletPoints
	}

	if _, err := f.db.Collection("clans").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test clan: %v", err)
	}
	for _, m := range members {
		id := c.ID
		m.ClanID = &id
		if _, err := f.db.Collection("users").UpdateByID(ctx, m.ID,
			bson.M{"$set": bson.M{"clan_id": c.ID}}); err != nil {
			f.t.Fatalf("failed to set clan on test user: %v", err)
		}
	}
	return c
}

// CreateEvent inserts a rally created by creatorID.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, creatorID primitive.ObjectID) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:                primitive.NewObjectID(),
		Title:             title,
		Lat:               48.8566,
		Lon:               2.3522,
		WasteType:         models.DefaultEventWasteType,
		EstimatedWeightKg: 5,
		CreatorID:         creatorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}
