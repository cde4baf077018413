package clanstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/system/paging"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clans")}
}

// Create inserts a founded clan. The name is folded into name_ci for the
// unique index; a duplicate yields errs.ErrNameTaken.
func (s *Store) Create(ctx context.Context, c models.Clan) (models.Clan, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.NameCI = text.Fold(c.Name)
	c.Version = 0
	if c.MemberIDs == nil {
		c.MemberIDs = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Clan{}, errs.ErrNameTaken
		}
		return models.Clan{}, err
	}
	return c, nil
}

// GetByID loads a clan. Returns errs.ErrNotFound if missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Clan, error) {
	var c models.Clan
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByIDs loads the clans in ids keyed by id. Unknown ids are absent from
// the map.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Clan, error) {
	out := make(map[primitive.ObjectID]models.Clan, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var c models.Clan
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	return out, cur.Err()
}

// SaveRoster writes the roster, leader and point counters of c if the
// stored version still equals c.Version, then bumps the version.
// A lost race yields errs.ErrConflict.
func (s *Store) SaveRoster(ctx context.Context, c *models.Clan) error {
	now := time.Now().UTC()
	set := bson.M{
		"member_ids":   c.MemberIDs,
		"total_points": c.TotalPoints,
		"score_actuel": c.ScoreActuel,
		"updated_at":   now,
	}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}
	if c.LeaderID != nil {
		set["leader_id"] = *c.LeaderID
	} else {
		update["$unset"] = bson.M{"leader_id": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": c.ID, "version": c.Version}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": c.ID}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.ErrNotFound
		}
		return errs.ErrConflict
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

// List returns clans ordered by total points (highest first), optionally
// restricted to one faction.
func (s *Store) List(ctx context.Context, faction string, p paging.Params) ([]models.Clan, error) {
	filter := bson.M{}
	if faction != "" {
		filter["faction"] = faction
	}
	opts := p.ApplyToFind(options.Find().
		SetSort(bson.D{{Key: "total_points", Value: -1}, {Key: "_id", Value: 1}}))

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	clans := []models.Clan{}
	if err := cur.All(ctx, &clans); err != nil {
		return nil, err
	}
	return clans, nil
}

// FactionScore is one faction's war standing.
type FactionScore struct {
	Faction string `bson:"_id" json:"faction"`
	Score   int    `bson:"score" json:"score"`
	Clans   int    `bson:"clans" json:"clans"`
}

// WarStats sums score_actuel per faction. Every known faction is present
// in the result, in models.Factions order, even with no clans.
func (s *Store) WarStats(ctx context.Context) ([]FactionScore, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$faction"},
			{Key: "score", Value: bson.D{{Key: "$sum", Value: "$score_actuel"}}},
			{Key: "clans", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []FactionScore
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	byFaction := make(map[string]FactionScore, len(rows))
	for _, r := range rows {
		byFaction[r.Faction] = r
	}

	out := make([]FactionScore, 0, len(models.Factions))
	for _, f := range models.Factions {
		fs := byFaction[f]
		fs.Faction = f
		out = append(out, fs)
	}
	return out, nil
}
