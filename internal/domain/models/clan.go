// internal/domain/models/clan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Factions a clan can fight for.
const (
	FactionCorsaires = "Corsaires"
	FactionKrakens   = "Krakens"
)

// Factions lists the valid faction names in display order.
var Factions = []string{FactionCorsaires, FactionKrakens}

// Clan is a group of users competing for a faction.
//
// NOTE:
//   - MemberIDs keeps join order; the first remaining member inherits
//     leadership when the leader leaves.
//   - TotalPoints and ScoreActuel are running totals of the wallet points
//     members carried when they joined, not a live sum.
//   - Version is bumped on every roster write (optimistic locking).
type Clan struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"-"`
	Faction  string             `bson:"faction" json:"faction"`
	Slogan   string             `bson:"slogan" json:"slogan"`
	ColorHex string             `bson:"color_hex" json:"color_hex"`

	MemberIDs []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	LeaderID  *primitive.ObjectID  `bson:"leader_id,omitempty" json:"leader_id,omitempty"`

	TotalPoints int `bson:"total_points" json:"total_points"`
	ScoreActuel int `bson:"score_actuel" json:"score_actuel"`

	Version int64 `bson:"version" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether id is in the roster.
func (c Clan) HasMember(id primitive.ObjectID) bool {
	for _, m := range c.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
