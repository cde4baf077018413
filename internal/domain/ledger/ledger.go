// Package ledger maintains a user's bounded, most-recent-first action log.
package ledger

import (
	"strings"
	"time"

	"github.com/dalemusser/ecopirates/internal/domain/errs"
	"github.com/dalemusser/ecopirates/internal/domain/models"
	"github.com/google/uuid"
)

// MaxItems is the number of entries kept on a record.
const MaxItems = 20

// DateLayout renders entry dates as day/month ("19/10").
const DateLayout = "02/01"

// Action labels written by the scan flow.
const (
	ActionWasteCollected = "Déchet Ramassé"
	ActionLevelUp        = "Niveau Supérieur !"
)

// Ledger stamps and appends history entries.
// Zero-value fields fall back to time.Now, time.Local and uuid.NewString.
type Ledger struct {
	Now      func() time.Time
	Location *time.Location
	NewID    func() string
}

// Add prepends {action, date, gain, id} to u.History and drops the oldest
// entries beyond MaxItems.
func (l Ledger) Add(u *models.User, action, gain string) (models.HistoryItem, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return models.HistoryItem{}, errs.Invalid("history action is required")
	}

	item := models.HistoryItem{
		ID:     l.newID(),
		Action: action,
		Date:   l.now().In(l.location()).Format(DateLayout),
		Gain:   strings.TrimSpace(gain),
	}

	history := make([]models.HistoryItem, 0, min(len(u.History)+1, MaxItems))
	history = append(history, item)
	for _, h := range u.History {
		if len(history) == MaxItems {
			break
		}
		history = append(history, h)
	}
	u.History = history
	return item, nil
}

func (l Ledger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l Ledger) location() *time.Location {
	if l.Location != nil {
		return l.Location
	}
	return time.Local
}

func (l Ledger) newID() string {
	if l.NewID != nil {
		return l.NewID()
	}
	return uuid.NewString()
}
