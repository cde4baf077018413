// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAvatar is assigned to users created without an avatar.
const DefaultAvatar = "default_avatar.png"

// User is a player's progression record: wallet, XP/level, the recent-action
// ledger, lifetime stats and clan membership.
//
// NOTE:
//   - ClanID is written only through the users store's conditional updates
//     (set when absent, cleared when it matches), which is what makes clan
//     membership exclusive at the data level.
//   - XP always stays below progression.XPRequired(Level).
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Pseudo   string             `bson:"pseudo" json:"pseudo"`
	PseudoCI string             `bson:"pseudo_ci" json:"-"` // lowercase, diacritics-stripped
	Email    string             `bson:"email" json:"email"`
	Avatar   string             `bson:"avatar" json:"avatar"`

	WalletPoints int `bson:"wallet_points" json:"wallet_points"`
	XP           int `bson:"xp" json:"xp"`
	Level        int `bson:"level" json:"level"`

	ClanID *primitive.ObjectID `bson:"clan_id,omitempty" json:"clan_id,omitempty"`

	InventoryCards []string      `bson:"inventory_cards" json:"inventory_cards"`
	History        []HistoryItem `bson:"history" json:"history"`
	Stats          Stats         `bson:"stats" json:"stats"`
	Bonus          Bonus         `bson:"bonus" json:"bonus"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Stats accumulates lifetime scan totals.
type Stats struct {
	WeightKg float64 `bson:"weight_kg" json:"weight_kg"`
	Missions int     `bson:"missions" json:"missions"`
}

// Bonus is a temporary coin multiplier earned from the quiz.
// A zero Until means no bonus has ever been granted.
type Bonus struct {
	Multiplier int       `bson:"multiplier" json:"multiplier"`
	Until      time.Time `bson:"until" json:"until"`
}

// HistoryItem is one entry of the user's recent-action ledger.
type HistoryItem struct {
	ID     string `bson:"id" json:"id"`
	Action string `bson:"action" json:"action"`
	Date   string `bson:"date" json:"date"`
	Gain   string `bson:"gain" json:"gain"`
}

// NewUser returns a record with every progression field initialised.
func NewUser(pseudo, email string) User {
	return User{
		Pseudo:         pseudo,
		Email:          email,
		Avatar:         DefaultAvatar,
		Level:          1,
		InventoryCards: []string{},
		History:        []HistoryItem{},
		Bonus:          Bonus{Multiplier: 1},
	}
}

// InClan reports whether the user currently belongs to a clan.
func (u User) InClan() bool {
	return u.ClanID != nil && !u.ClanID.IsZero()
}
