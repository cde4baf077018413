package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/app/system/paging"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Create validates and inserts a rally. Title and description are stripped
// of markup; an empty waste type becomes models.DefaultEventWasteType.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.Title = normalize.Name(e.Title)
	e.Description = normalize.Name(e.Description)
	e.WasteType = normalize.Name(e.WasteType)

	switch {
	case e.Title == "":
		return models.Event{}, errs.Invalid("title is required")
	case e.Lat < -90 || e.Lat > 90:
		return models.Event{}, errs.Invalid("lat must be within [-90, 90]")
	case e.Lon < -180 || e.Lon > 180:
		return models.Event{}, errs.Invalid("lng must be within [-180, 180]")
	case e.EstimatedWeightKg < 0:
		return models.Event{}, errs.Invalid("estimated_weight_kg must not be negative")
	case e.CreatorID.IsZero():
		return models.Event{}, errs.Invalid("creator_id is required")
	}
	if e.WasteType == "" {
		e.WasteType = models.DefaultEventWasteType
	}

	e.ID = primitive.NewObjectID()
	e.Validated = false
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID loads a rally. Returns errs.ErrNotFound if missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns rallies newest first.
func (s *Store) List(ctx context.Context, p paging.Params) ([]models.Event, error) {
	opts := p.ApplyToFind(options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
