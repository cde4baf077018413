package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/system/inputval"
	"github.com/dalemusser/ecopirates/internal/app/system/normalize"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/dalemusser/ecopirates/internal/domain/progression"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultTopContributors is the leaderboard size when none is requested.
const DefaultTopContributors = 3

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns errs.ErrNotFound if missing.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create registers a new player. Pseudo and email are normalized; every
// progression field starts from models.NewUser.
func (s *Store) Create(ctx context.Context, pseudo, email string) (models.User, error) {
	pseudo = normalize.Name(pseudo)
	email = normalize.Email(email)
	if pseudo == "" {
		return models.User{}, errs.Invalid("pseudo is required")
	}
	if !inputval.IsValidEmail(email) {
		return models.User{}, errs.Invalid("a valid email is required")
	}

	u := models.NewUser(pseudo, email)
	u.ID = primitive.NewObjectID()
	u.PseudoCI = text.Fold(pseudo)
	ts := now()
	u.CreatedAt = ts
	u.UpdatedAt = ts

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, errs.ErrDuplicateUser
		}
		return models.User{}, err
	}
	return u, nil
}

// now returns the current time at the millisecond precision MongoDB stores,
// so a loaded UpdatedAt compares equal to the one written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// SaveProgress writes the progression fields of u (wallet, xp, level,
// history, stats, bonus). Clan membership is never written here.
//
// The write only applies if the stored updated_at still equals u.UpdatedAt;
// otherwise errs.ErrConflict is returned and the caller should reload.
func (s *Store) SaveProgress(ctx context.Context, u *models.User) error {
	prev := u.UpdatedAt
	next := now()
	if !next.After(prev) {
		next = prev.Add(time.Millisecond)
	}
	set := bson.M{
		"wallet_points": u.WalletPoints,
		"xp":            u.XP,
		"level":         u.Level,
		"history":       u.History,
		"stats":         u.Stats,
		"bonus":         u.Bonus,
		"updated_at":    next,
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": u.ID, "updated_at": prev}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missOr(ctx, u.ID, errs.ErrConflict)
	}
	u.UpdatedAt = next
	return nil
}

// SetClan records clanID on the user only if the user has no clan.
// Returns errs.ErrAlreadyInClan when another clan is already set.
func (s *Store) SetClan(ctx context.Context, userID, clanID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "clan_id": nil},
		bson.M{"$set": bson.M{"clan_id": clanID, "updated_at": now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missOr(ctx, userID, errs.ErrAlreadyInClan)
	}
	return nil
}

// ClearClan removes clanID from the user only if it is the user's clan.
// Returns errs.ErrNotInClan otherwise.
func (s *Store) ClearClan(ctx context.Context, userID, clanID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "clan_id": clanID},
		bson.M{
			"$unset": bson.M{"clan_id": ""},
			"$set":   bson.M{"updated_at": now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.missOr(ctx, userID, errs.ErrNotInClan)
	}
	return nil
}

// missOr distinguishes a missing user from a failed condition.
func (s *Store) missOr(ctx context.Context, userID primitive.ObjectID, condErr error) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return condErr
}

// TopContributors returns the n users with the most wallet points.
// Ties are broken by _id so the order is stable.
func (s *Store) TopContributors(ctx context.Context, n int) ([]models.User, error) {
	if n <= 0 {
		n = DefaultTopContributors
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "wallet_points", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(n))

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ProfileUpdate holds the client-editable fields. Nil fields are left
// unchanged. XP and level are not editable here.
type ProfileUpdate struct {
	Avatar         *string
	WalletPoints   *int
	InventoryCards []string
}

// UpdateProfile applies upd and returns the updated user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": now()}
	if upd.Avatar != nil {
		avatar := strings.TrimSpace(*upd.Avatar)
		if avatar == "" {
			avatar = models.DefaultAvatar
		}
		set["avatar"] = avatar
	}
	if upd.WalletPoints != nil {
		if *upd.WalletPoints < 0 {
			return nil, errs.Invalid("wallet_points must not be negative")
		}
		if *upd.WalletPoints > progression.MaxWalletPoints {
			return nil, errs.Invalid("wallet_points out of range")
		}
		set["wallet_points"] = *upd.WalletPoints
	}
	if upd.InventoryCards != nil {
		set["inventory_cards"] = upd.InventoryCards
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

// SetBonus stores the user's quiz bonus.
func (s *Store) SetBonus(ctx context.Context, id primitive.ObjectID, b models.Bonus) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"bonus": b, "updated_at": now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ExpireBonuses resets the multiplier of every bonus that ran out at or
// before asOf. Until is kept and updated_at is left alone, so in-flight
// progress saves are not turned into conflicts.
func (s *Store) ExpireBonuses(ctx context.Context, asOf time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"bonus.multiplier": bson.M{"$gt": 1}, "bonus.until": bson.M{"$lte": asOf}},
		bson.M{"$set": bson.M{"bonus.multiplier": 1}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
