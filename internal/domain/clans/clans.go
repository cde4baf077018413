// Package clans holds the clan membership rules: founding, joining, leaving,
// leadership succession and the rank ladder.
//
// The functions here mutate in-memory records only. The game engine is
// responsible for persisting the user and clan sides together.
package clans

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxNameLength bounds clan names (in runes).
const MaxNameLength = 32

// DefaultColor is used when a clan is founded without a color tag.
const DefaultColor = "#1e90ff"

var colorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FoundInput describes a new clan.
type FoundInput struct {
	Name    string
	Slogan  string
	Color   string
	Faction string
}

// Found creates a clan led by founder, who becomes its sole member.
// The founder's points are not credited to the new clan.
//
// Name uniqueness is enforced by the store; Found only validates shape.
func Found(in FoundInput, founder *models.User) (models.Clan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Clan{}, errs.Invalid("clan name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return models.Clan{}, errs.Invalid("clan name is too long")
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = DefaultColor
	}
	if !ValidColor(color) {
		return models.Clan{}, errs.Invalid("color must be #rgb or #rrggbb")
	}

	faction := strings.TrimSpace(in.Faction)
	if faction == "" {
		faction = models.FactionCorsaires
	}
	if !slices.Contains(models.Factions, faction) {
		return models.Clan{}, errs.Invalid("unknown faction")
	}

	if founder.InClan() {
		return models.Clan{}, errs.ErrAlreadyInClan
	}

	id := primitive.NewObjectID()
	leader := founder.ID
	c := models.Clan{
		ID:        id,
		Name:      name,
		Faction:   faction,
		Slogan:    strings.TrimSpace(in.Slogan),
		ColorHex:  strings.ToLower(color),
		MemberIDs: []primitive.ObjectID{founder.ID},
		LeaderID:  &leader,
	}
	founder.ClanID = &id
	return c, nil
}

// Join adds u to c and credits the user's current wallet points to both clan
// counters. A user already in a clan is rejected and nothing changes.
func Join(c *models.Clan, u *models.User) error {
	if u.InClan() {
		return errs.ErrAlreadyInClan
	}
	if !c.HasMember(u.ID) {
		c.MemberIDs = append(c.MemberIDs, u.ID)
	}
	c.TotalPoints += u.WalletPoints
	c.ScoreActuel += u.WalletPoints
	id := c.ID
	u.ClanID = &id
	return nil
}

// LeaveResult reports the leadership outcome of Leave.
type LeaveResult struct {
	// Promoted is the new leader when the leaving user led the clan and
	// someone remained.
	Promoted *primitive.ObjectID
	// Leaderless is true when the clan ended up without a leader.
	Leaderless bool
}

// Leave removes u from c, withdraws the user's wallet points from the clan
// counters (floored at zero) and hands leadership to the earliest remaining
// member when the leader leaves. An emptied clan is kept, leaderless.
func Leave(c *models.Clan, u *models.User) (LeaveResult, error) {
	if !u.InClan() || *u.ClanID != c.ID {
		return LeaveResult{}, errs.ErrNotInClan
	}

	c.MemberIDs = slices.DeleteFunc(c.MemberIDs, func(id primitive.ObjectID) bool { return id == u.ID })
	c.TotalPoints = max(0, c.TotalPoints-u.WalletPoints)
	c.ScoreActuel = max(0, c.ScoreActuel-u.WalletPoints)
	u.ClanID = nil

	var res LeaveResult
	if c.LeaderID != nil && *c.LeaderID == u.ID {
		c.LeaderID = nil
		if len(c.MemberIDs) > 0 {
			next := c.MemberIDs[0]
			c.LeaderID = &next
			res.Promoted = &next
		}
	}
	res.Leaderless = c.LeaderID == nil
	return res, nil
}

// Rank returns the clan rank for a point total. It is derived on read and
// never stored.
func Rank(totalPoints int) string {
	switch {
	case totalPoints < 1000:
		return "Moussaillon"
	case totalPoints < 5000:
		return "Quartier-Maitre"
	case totalPoints < 10000:
		return "Capitaine"
	default:
		return "Amiral"
	}
}

// ValidColor reports whether s is a #rgb or #rrggbb color tag.
func ValidColor(s string) bool {
	return colorRe.MatchString(s)
}
