// Package normalize canonicalizes user input before validation and storage.
package normalize

import (
	"strings"

	"github.com/dalemusser/ecopirates/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name strips markup and collapses whitespace in a display name
// (pseudo, clan name, rally title). Case is preserved.
func Name(s string) string {
	return htmlsanitize.Text(s)
}

// Faction maps a case-insensitive faction name to its canonical spelling.
// Unknown values are returned trimmed so validation can reject them.
func Faction(s string) string {
	s = strings.TrimSpace(s)
	for _, f := range models.Factions {
		if strings.EqualFold(s, f) {
			return f
		}
	}
	return s
}

// ObjectID parses a hex id, reporting ErrInvalidInput on malformed input.
func ObjectID(field, s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, errs.Invalid(field + " must be a valid id")
	}
	return id, nil
}
